package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-game-service/internal/domain"
)

const DefaultBaseURL = "https://opentdb.com"

// Client fetches multiple-choice question batches from an Open Trivia DB
// compatible endpoint. Question text is passed through unescaped.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sf         singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchQuestions issues a single GET for amount questions. Concurrent calls
// for the same amount are collapsed into one outbound request, so a rapid
// double-trigger cannot fan out into parallel fetches.
func (c *Client) FetchQuestions(ctx context.Context, amount int) ([]domain.Question, error) {
	result, err, _ := c.sf.Do(strconv.Itoa(amount), func() (interface{}, error) {
		return c.fetch(ctx, amount)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *Client) fetch(ctx context.Context, amount int) ([]domain.Question, error) {
	u, err := url.Parse(c.baseURL + "/api.php")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	q := u.Query()
	q.Set("amount", strconv.Itoa(amount))
	q.Set("type", "multiple")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	var payload struct {
		ResponseCode int `json:"response_code"`
		Results      []struct {
			Question         string   `json:"question"`
			CorrectAnswer    string   `json:"correct_answer"`
			IncorrectAnswers []string `json:"incorrect_answers"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("%w: response carried no results (code %d)", domain.ErrMalformedPayload, payload.ResponseCode)
	}

	questions := make([]domain.Question, 0, len(payload.Results))
	for _, result := range payload.Results {
		questions = append(questions, domain.Question{
			Text:             result.Question,
			CorrectAnswer:    result.CorrectAnswer,
			IncorrectAnswers: result.IncorrectAnswers,
		})
	}
	return questions, nil
}
