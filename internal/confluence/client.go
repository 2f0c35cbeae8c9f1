// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package confluence is a minimal client for the Confluence content REST API:
// page lookup by id or by space and title, attachment listings, and raw asset
// downloads. Every request carries the bearer token and a JSON accept header.
// Calls are attempted exactly once; there are no retries.
package confluence

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/wiki2md/pkg/types"
)

const (
	contentPath = "/rest/api/content"

	// expandContent selects the response fields needed for conversion.
	expandContent = "space,body.view,version,container"

	// expandAttachments selects the fields carried by attachment listings.
	expandAttachments = "version,container"
)

// Client talks to one Confluence instance.
type Client struct {
	// BaseURL is the scheme://host origin, without a trailing slash.
	BaseURL string

	// Token is the bearer credential sent with every request.
	Token string

	// UserAgent is sent when non-empty.
	UserAgent string

	// HTTPClient issues the requests.
	HTTPClient *http.Client
}

// New returns a client for the instance at baseURL. A trailing slash on
// baseURL is trimmed so path concatenation stays predictable.
func New(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: httpClient,
	}
}

// contentResponse mirrors the content API's single-object response.
type contentResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Space struct {
		Key string `json:"key"`
	} `json:"space"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		View struct {
			Value string `json:"value"`
		} `json:"view"`
	} `json:"body"`
}

// contentList mirrors the content API's search response.
type contentList struct {
	Results []contentResponse `json:"results"`
	Size    int               `json:"size"`
}

// PageByID fetches a page by its numeric id. The second return value reports
// whether the page exists; a response without an id is "not found", not an
// error.
func (c *Client) PageByID(id string) (*types.Page, bool, error) {
	apiURL := c.BaseURL + contentPath + "/" + id + "?expand=" + expandContent

	var cr contentResponse
	if err := c.getJSON(apiURL, &cr); err != nil {
		return nil, false, err
	}
	if cr.ID == "" {
		return nil, false, nil
	}
	return pageFrom(cr), true, nil
}

// PageBySpaceTitle looks a page up by space key and title. An empty result
// list is "not found", not an error.
func (c *Client) PageBySpaceTitle(spaceKey, title string) (*types.Page, bool, error) {
	params := url.Values{}
	params.Set("spaceKey", spaceKey)
	params.Set("title", title)
	params.Set("expand", expandContent)
	apiURL := c.BaseURL + contentPath + "?" + params.Encode()

	var cl contentList
	if err := c.getJSON(apiURL, &cl); err != nil {
		return nil, false, err
	}
	if cl.Size == 0 || len(cl.Results) == 0 {
		return nil, false, nil
	}
	return pageFrom(cl.Results[0]), true, nil
}

// attachmentList mirrors the child-attachment listing response.
type attachmentList struct {
	Results []struct {
		Title    string `json:"title"`
		Metadata struct {
			MediaType string `json:"mediaType"`
		} `json:"metadata"`
		Links struct {
			Download string `json:"download"`
		} `json:"_links"`
	} `json:"results"`
}

// Attachments lists the files attached to the page with the given id.
// Download links are base-relative paths.
func (c *Client) Attachments(pageID string) ([]types.Attachment, error) {
	apiURL := c.BaseURL + contentPath + "/" + pageID + "/child/attachment?expand=" + expandAttachments

	var al attachmentList
	if err := c.getJSON(apiURL, &al); err != nil {
		return nil, err
	}

	atts := make([]types.Attachment, 0, len(al.Results))
	for _, r := range al.Results {
		atts = append(atts, types.Attachment{
			Title:        r.Title,
			MediaType:    r.Metadata.MediaType,
			DownloadLink: r.Links.Download,
		})
	}
	return atts, nil
}

// Download fetches an absolute URL and returns the response body. The bearer
// token and accept header are sent here too; attachment downloads on private
// instances require them.
func (c *Client) Download(rawURL string) ([]byte, error) {
	resp, err := c.get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}
	return data, nil
}

// getJSON issues a GET and decodes the JSON response. Non-2xx responses are
// errors naming the status.
func (c *Client) getJSON(rawURL string, v any) error {
	resp, err := c.get(rawURL)
	if err != nil {
		return fmt.Errorf("content API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("content API returned HTTP %d for %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing content API response: %w", err)
	}
	return nil
}

func (c *Client) get(rawURL string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return c.HTTPClient.Do(req)
}

func pageFrom(cr contentResponse) *types.Page {
	return &types.Page{
		ID:       cr.ID,
		Title:    cr.Title,
		SpaceKey: cr.Space.Key,
		Version:  cr.Version.Number,
		BodyHTML: cr.Body.View.Value,
	}
}
