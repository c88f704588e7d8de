package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultTWSEBaseURL is the Taiwan Stock Exchange market information endpoint.
const DefaultTWSEBaseURL = "https://mis.twse.com.tw/stock/api/getStockInfo.jsp"

// TWSESource queries the exchange's real-time quote endpoint in a single batch.
// Each code is requested on both the listed (tse) and OTC (otc) channels.
type TWSESource struct {
	BaseURL string
	fetch   fetcher
}

// NewTWSESource creates a TWSESource. A nil client uses a default http.Client.
func NewTWSESource(client *http.Client, proxies []string) *TWSESource {
	return &TWSESource{
		BaseURL: DefaultTWSEBaseURL,
		fetch:   newFetcher(client, proxies),
	}
}

// Name implements Source.
func (s *TWSESource) Name() string { return "twse" }

type twseResponse struct {
	MsgArray  []twseQuote `json:"msgArray"`
	RtCode    string      `json:"rtcode"`
	RtMessage string      `json:"rtmessage"`
}

type twseQuote struct {
	Code      string `json:"c"`
	LastTrade string `json:"z"` // "-" until the first trade of the session
	PrevClose string `json:"y"`
	Channel   string `json:"ex"`
}

// Quotes implements Source.
func (s *TWSESource) Quotes(ctx context.Context, codes []string) (map[string]float64, error) {
	codes = dedupe(codes)
	if len(codes) == 0 {
		return map[string]float64{}, nil
	}

	channels := make([]string, 0, len(codes)*2)
	for _, c := range codes {
		channels = append(channels, "tse_"+c+".tw", "otc_"+c+".tw")
	}

	params := url.Values{}
	params.Set("ex_ch", strings.Join(channels, "|"))
	params.Set("json", "1")
	params.Set("delay", "0")
	target := s.BaseURL + "?" + params.Encode()

	body, err := s.fetch.get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("twse request failed: %w", err)
	}

	var resp twseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("twse response malformed: %w", err)
	}
	if resp.RtCode != "" && resp.RtCode != "0000" {
		return nil, fmt.Errorf("twse error %s: %s", resp.RtCode, resp.RtMessage)
	}

	quotes := make(map[string]float64, len(resp.MsgArray))
	for _, q := range resp.MsgArray {
		if _, done := quotes[q.Code]; done {
			continue
		}
		if p, ok := parseTWSEPrice(q.LastTrade); ok {
			quotes[q.Code] = p
			continue
		}
		if p, ok := parseTWSEPrice(q.PrevClose); ok {
			quotes[q.Code] = p
		}
	}

	return quotes, nil
}

func parseTWSEPrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || !usable(p) {
		return 0, false
	}
	return p, true
}
