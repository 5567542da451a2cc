//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	pacttest "github.com/ravengallery/gallery-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type imagePayload struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	Filename    string   `json:"filename"`
	ContentType string   `json:"contentType"`
}

type tagPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type tagCollectionPayload struct {
	Items []tagPayload `json:"items"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestGalleryWebContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	imageBodyMatcher := matchers.Map{
		"id":          matchers.Like(pacttest.ExistingImageID),
		"ownerId":     matchers.Like(pacttest.OwnerID),
		"title":       matchers.Like(pacttest.ExampleTitle),
		"tags":        matchers.ArrayMinLike(pacttest.ExampleTags()[0], 1),
		"filename":    matchers.Like(pacttest.ExampleFilename),
		"contentType": matchers.Term("image/png", "image\\/[a-z0-9.+-]+"),
	}

	pact.AddInteraction().
		Given(pacttest.StateImageExists).
		UponReceiving("a request to fetch an existing image").
		WithRequest("GET", "/v1/images/"+pacttest.ExistingImageID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(imageBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateImageMissing).
		UponReceiving("a request for a missing image").
		WithRequest("GET", "/v1/images/"+pacttest.MissingImageID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateTagsSeeded).
		UponReceiving("a tag search by prefix").
		WithRequest("GET", "/v1/tags", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("searchText", matchers.S("sun"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"items": matchers.EachLike(matchers.Map{
					"name":  matchers.Term("sunset", "^sun.*"),
					"count": matchers.Like(1),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateImageExists).
		UponReceiving("a request to retitle an image").
		WithRequest("PUT", "/v1/images/"+pacttest.ExistingImageID+"/title", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"title": matchers.Like("Golden hour")})
		}).
		WillRespondWith(http.StatusNoContent)

	pact.AddInteraction().
		Given(pacttest.StateImageExists).
		UponReceiving("a retitle request with a blank title").
		WithRequest("PUT", "/v1/images/"+pacttest.ExistingImageID+"/title", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]string{"title": ""})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/validation-error"),
				"status": matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newGalleryClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		image, err := client.GetImage(ctx, pacttest.ExistingImageID)
		if err != nil {
			return fmt.Errorf("get image: %w", err)
		}
		if image.ID != pacttest.ExistingImageID || len(image.Tags) == 0 {
			return fmt.Errorf("unexpected image %+v", image)
		}

		if _, err := client.GetImage(ctx, pacttest.MissingImageID); err == nil {
			return fmt.Errorf("expected 404 for image %s", pacttest.MissingImageID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		tags, err := client.SearchTags(ctx, "sun")
		if err != nil {
			return fmt.Errorf("search tags: %w", err)
		}
		if len(tags.Items) == 0 {
			return fmt.Errorf("expected at least one tag")
		}

		if err := client.Retitle(ctx, pacttest.ExistingImageID, "Golden hour"); err != nil {
			return fmt.Errorf("retitle: %w", err)
		}
		if err := client.Retitle(ctx, pacttest.ExistingImageID, ""); err == nil {
			return fmt.Errorf("expected blank title to be rejected")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusBadRequest {
			return fmt.Errorf("expected 400, got %d", apiErr.Status())
		}
		return nil
	})
	require.NoError(t, err)
}

type galleryClient struct {
	baseURL    string
	httpClient *http.Client
}

func newGalleryClient(config pactconsumer.MockServerConfig) *galleryClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &galleryClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *galleryClient) GetImage(ctx context.Context, id string) (*imagePayload, error) {
	var payload imagePayload
	if err := c.getJSON(ctx, "/v1/images/"+url.PathEscape(id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *galleryClient) SearchTags(ctx context.Context, prefix string) (*tagCollectionPayload, error) {
	var payload tagCollectionPayload
	if err := c.getJSON(ctx, "/v1/tags?searchText="+url.QueryEscape(prefix), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *galleryClient) Retitle(ctx context.Context, id, title string) error {
	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/v1/images/"+url.PathEscape(id)+"/title", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return nil
}

func (c *galleryClient) getJSON(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(into)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
