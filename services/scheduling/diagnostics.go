package scheduling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"

	"go.uber.org/zap"
)

// ProbeResult is the raw outcome of one diagnostic call.
type ProbeResult struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Status  int    `json:"status,omitempty"`
	OK      bool   `json:"ok"`
	IsJSON  bool   `json:"is_json"`
	Preview string `json:"response_preview,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JobListing summarises the jobs visible to the configured key.
type JobListing struct {
	Status    int            `json:"status"`
	JobCount  int            `json:"job_count"`
	SampleJob map[string]any `json:"sample_job,omitempty"`
	Fields    []string       `json:"fields,omitempty"`
	Preview   string         `json:"response_preview,omitempty"`
}

// InstanceCount is an instance id and how many existing jobs reference it.
type InstanceCount struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}

// InstanceDiscovery reports where instance ids were found.
type InstanceDiscovery struct {
	Source    string          `json:"source"`
	Instances []InstanceCount `json:"instances"`
	Tried     []ProbeResult   `json:"tried"`
}

type authMethod struct {
	name   string
	header http.Header
	query  bool
}

func (c *Client) authMethods() []authMethod {
	return []authMethod{
		{name: "bearer", header: http.Header{"Authorization": {"Bearer " + c.apiKey}}},
		{name: "x-api-key", header: http.Header{"X-API-Key": {c.apiKey}}},
		{name: "api-key", header: http.Header{"API-Key": {c.apiKey}}},
		{name: "connecteam-api-key", header: http.Header{"Connecteam-API-Key": {c.apiKey}}},
		{name: "query-api-key", query: true},
	}
}

// CheckAuthMethods calls /me once per known authentication style.
func (c *Client) CheckAuthMethods(ctx context.Context) []ProbeResult {
	methods := c.authMethods()
	results := make([]ProbeResult, 0, len(methods))
	for _, m := range methods {
		if ctx.Err() != nil {
			break
		}
		target := c.URL("/me")
		if m.query {
			target += "?" + url.Values{"api_key": {c.apiKey}}.Encode()
		}
		resp, err := c.do(ctx, http.MethodGet, target, nil, m.header)
		result := probeResult(m.name, c.URL("/me"), resp, err)
		c.logger.Info("auth method checked", zap.String("method", m.name), zap.Int("status", result.Status))
		results = append(results, result)
	}
	return results
}

// ProbeEndpoints issues read-only GETs against a fixed set of endpoints.
func (c *Client) ProbeEndpoints(ctx context.Context) []ProbeResult {
	paths := []string{"/me", "/users/v1/users", "/jobs/v1/jobs", "/tasks/v1/taskboards"}
	results := make([]ProbeResult, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		resp, err := c.Do(ctx, http.MethodGet, path, nil)
		results = append(results, probeResult(path, c.URL(path), resp, err))
	}
	return results
}

// ListJobs fetches existing jobs and describes the first one.
func (c *Client) ListJobs(ctx context.Context) (*JobListing, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/jobs/v1/jobs", nil)
	if err != nil {
		return nil, err
	}
	listing := &JobListing{Status: resp.Status}
	jobs, ok := decodeJobs(resp)
	if !ok {
		listing.Preview = resp.Preview(previewLen)
		return listing, nil
	}
	listing.JobCount = len(jobs)
	if len(jobs) > 0 {
		listing.SampleJob = jobs[0]
		for k := range jobs[0] {
			listing.Fields = append(listing.Fields, k)
		}
		sort.Strings(listing.Fields)
	}
	return listing, nil
}

// DiscoverInstances looks for instance ids on the known listing endpoints and,
// failing that, ranks the instanceIds referenced by existing jobs.
func (c *Client) DiscoverInstances(ctx context.Context) (*InstanceDiscovery, error) {
	paths := []string{"/jobs/v1/instances", "/instances", "/v1/instances", "/scheduler/instances", "/timeclock/instances"}
	out := &InstanceDiscovery{Instances: []InstanceCount{}}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		resp, err := c.Do(ctx, http.MethodGet, path, nil)
		out.Tried = append(out.Tried, probeResult(path, c.URL(path), resp, err))
		if err != nil || !JSONSuccess(resp.Status, resp.ContentType) {
			continue
		}
		if ids := instanceIDs(resp.Body); len(ids) > 0 {
			out.Source = path
			for _, id := range ids {
				out.Instances = append(out.Instances, InstanceCount{ID: id})
			}
			return out, nil
		}
	}

	resp, err := c.Do(ctx, http.MethodGet, "/jobs/v1/jobs", nil)
	if err != nil {
		return out, err
	}
	jobs, _ := decodeJobs(resp)
	out.Source = "existing jobs"
	out.Instances = rankInstances(jobs)
	return out, nil
}

func probeResult(name, target string, resp *Response, err error) ProbeResult {
	r := ProbeResult{Name: name, URL: target}
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Status = resp.Status
	r.OK = resp.OK()
	r.IsJSON = resp.IsJSON()
	r.Preview = resp.Preview(200)
	return r
}

// decodeJobs accepts either {"data":{"jobs":[...]}} or {"jobs":[...]}.
func decodeJobs(resp *Response) ([]map[string]any, bool) {
	if !JSONSuccess(resp.Status, resp.ContentType) {
		return nil, false
	}
	var body struct {
		Data struct {
			Jobs []map[string]any `json:"jobs"`
		} `json:"data"`
		Jobs []map[string]any `json:"jobs"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, false
	}
	if body.Data.Jobs != nil {
		return body.Data.Jobs, true
	}
	return body.Jobs, true
}

func instanceIDs(raw []byte) []int64 {
	var body struct {
		Data      json.RawMessage `json:"data"`
		Instances []struct {
			ID int64 `json:"id"`
		} `json:"instances"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	var ids []int64
	var data []struct {
		ID int64 `json:"id"`
	}
	if len(body.Data) > 0 && json.Unmarshal(body.Data, &data) == nil {
		for _, d := range data {
			ids = append(ids, d.ID)
		}
	}
	for _, in := range body.Instances {
		ids = append(ids, in.ID)
	}
	return ids
}

// rankInstances counts instanceIds across jobs, most used first.
func rankInstances(jobs []map[string]any) []InstanceCount {
	counts := map[int64]int{}
	for _, job := range jobs {
		for _, id := range idList(job["instanceIds"]) {
			counts[id]++
		}
	}
	ranked := make([]InstanceCount, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, InstanceCount{ID: id, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
