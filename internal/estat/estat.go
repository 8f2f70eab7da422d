// Package estat looks up statistical reference prices for canonical item
// names from the e-Stat retail price survey API.
package estat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/normalize"
	"github.com/okaimono/sage/internal/service"
)

const defaultBaseURL = "https://api.e-stat.go.jp/rest/3.0/app/json"

// classSearchOrder is the priority of classification axes when locating an
// item inside a statistics table. cat01 carries the item classification in
// the retail price survey; cat02/cat03 carry grade and detail splits, and
// tab the tabulation kind.
var classSearchOrder = []string{"cat01", "cat02", "cat03", "tab"}

// nameHints maps a canonical name to the names it appears under in the
// statistics tables, tried in order before the canonical name itself.
var nameHints = map[string][]string{
	"食パン": {"食パン"},
	"鶏卵":  {"鶏卵", "卵"},
}

// PriceInfo is one resolved reference price.
type PriceInfo struct {
	Canonical string
	ClassID   string
	ClassCode string
	ClassName string
	Unit      string
	Price     float64
}

// Config holds e-Stat API connection settings.
type Config struct {
	AppID       string
	BaseURL     string
	StatsDataID string
	Timeout     time.Duration
}

// Client queries the e-Stat getStatsData endpoint.
type Client struct {
	httpClient  *http.Client
	appID       string
	baseURL     string
	statsDataID string
	retryOpts   service.RetryOptions
}

// NewClient creates an e-Stat client. The application ID is mandatory.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("e-Stat application ID is required: %w", common.ErrMissingConfig)
	}
	if cfg.StatsDataID == "" {
		return nil, fmt.Errorf("e-Stat statsDataId is required: %w", common.ErrMissingConfig)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		appID:       cfg.AppID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		statsDataID: cfg.StatsDataID,
		retryOpts:   common.DefaultRetryOptions(),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// LookupPrice finds the reference price for a canonical item name. It returns
// common.ErrNotFound when the statistics tables carry no matching class or no
// usable value; a zero price is never fabricated.
func (c *Client) LookupPrice(ctx context.Context, canonical string) (*PriceInfo, error) {
	if canonical == "" {
		return nil, fmt.Errorf("canonical name is empty: %w", common.ErrNotFound)
	}

	var data *statsData
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		data, fetchErr = c.fetchStatsData(ctx)
		return fetchErr
	}, c.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStatLookupFailed, err)
	}

	for _, name := range lookupNames(canonical) {
		if info := data.findPrice(name); info != nil {
			info.Canonical = canonical
			return info, nil
		}
	}
	return nil, fmt.Errorf("no reference price for %q: %w", canonical, common.ErrNotFound)
}

// lookupNames returns the table names to try for a canonical, hints first.
func lookupNames(canonical string) []string {
	names := append([]string{}, nameHints[canonical]...)
	for _, n := range names {
		if n == canonical {
			return names
		}
	}
	return append(names, canonical)
}

func (c *Client) fetchStatsData(ctx context.Context) (*statsData, error) {
	query := url.Values{}
	query.Set("appId", c.appID)
	query.Set("statsDataId", c.statsDataID)
	query.Set("metaGetFlg", "Y")
	query.Set("cntGetFlg", "N")

	endpoint := c.baseURL + "/getStatsData?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, common.ErrRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("e-Stat API error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope statsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if status := envelope.GetStatsData.Result.Status; status != 0 {
		return nil, fmt.Errorf("e-Stat API status %d: %s", status, envelope.GetStatsData.Result.ErrorMsg)
	}
	return &envelope.GetStatsData.StatisticalData, nil
}

// statsEnvelope mirrors the getStatsData JSON response.
type statsEnvelope struct {
	GetStatsData struct {
		Result struct {
			Status   int    `json:"STATUS"`
			ErrorMsg string `json:"ERROR_MSG"`
		} `json:"RESULT"`
		StatisticalData statsData `json:"STATISTICAL_DATA"`
	} `json:"GET_STATS_DATA"`
}

type statsData struct {
	ClassInfo struct {
		ClassObjs []classObj `json:"CLASS_OBJ"`
	} `json:"CLASS_INF"`
	DataInfo struct {
		Values []dataValue `json:"VALUE"`
	} `json:"DATA_INF"`
}

type classObj struct {
	ID      string    `json:"@id"`
	Name    string    `json:"@name"`
	Classes classList `json:"CLASS"`
}

type classEntry struct {
	Code string `json:"@code"`
	Name string `json:"@name"`
	Unit string `json:"@unit"`
}

// classList accepts both the single-object and array forms the API emits.
type classList []classEntry

func (l *classList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var entries []classEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		*l = entries
		return nil
	}
	var single classEntry
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = classList{single}
	return nil
}

type dataValue struct {
	Tab   string `json:"@tab"`
	Cat01 string `json:"@cat01"`
	Cat02 string `json:"@cat02"`
	Cat03 string `json:"@cat03"`
	Time  string `json:"@time"`
	Unit  string `json:"@unit"`
	Value string `json:"$"`
}

func (v dataValue) codeFor(classID string) string {
	switch classID {
	case "tab":
		return v.Tab
	case "cat01":
		return v.Cat01
	case "cat02":
		return v.Cat02
	case "cat03":
		return v.Cat03
	}
	return ""
}

// findPrice scans the classification axes in priority order for a class
// whose name contains the item name, then picks the newest value carrying
// that class code.
func (d *statsData) findPrice(name string) *PriceInfo {
	needle := normalize.SimplifyKey(name)
	if needle == "" {
		return nil
	}

	for _, axis := range classSearchOrder {
		obj := d.classObjByID(axis)
		if obj == nil {
			continue
		}
		for _, class := range obj.Classes {
			if !strings.Contains(normalize.SimplifyKey(class.Name), needle) {
				continue
			}
			if info := d.latestValue(axis, class); info != nil {
				return info
			}
		}
	}
	return nil
}

func (d *statsData) classObjByID(id string) *classObj {
	for i := range d.ClassInfo.ClassObjs {
		if d.ClassInfo.ClassObjs[i].ID == id {
			return &d.ClassInfo.ClassObjs[i]
		}
	}
	return nil
}

func (d *statsData) latestValue(axis string, class classEntry) *PriceInfo {
	var best *dataValue
	for i := range d.DataInfo.Values {
		value := &d.DataInfo.Values[i]
		if value.codeFor(axis) != class.Code {
			continue
		}
		if best == nil || value.Time > best.Time {
			best = value
		}
	}
	if best == nil {
		return nil
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(best.Value, ",", ""), 64)
	if err != nil || price <= 0 {
		return nil
	}

	unit := class.Unit
	if unit == "" {
		unit = best.Unit
	}
	return &PriceInfo{
		ClassID:   axis,
		ClassCode: class.Code,
		ClassName: class.Name,
		Unit:      unit,
		Price:     price,
	}
}
