package api

import (
	"time"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// DefaultsResponse carries the initial scan form
type DefaultsResponse struct {
	Body struct {
		Config scan.RawConfig  `json:"config" doc:"Default scan request, numbers as text"`
		Units  []spectrum.Unit `json:"units" doc:"Accepted frequency units"`
	}
}

// BandView is a classified region of the spectrum
type BandView struct {
	Label spectrum.BandLabel `json:"label" example:"VHF" doc:"Band name"`
	Usage string             `json:"usage" doc:"Typical use of the band"`
	Start float64            `json:"start" doc:"Lower bound in Hz"`
	Stop  float64            `json:"stop" doc:"Upper bound in Hz"`
}

type BandsResponse struct {
	Body []BandView
}

type PresetsResponse struct {
	Body []scan.Preset
}

// StartScanRequest accepts a JSON or YAML scan request. Missing fields keep
// their default values, numbers may be sent as text or as numbers.
type StartScanRequest struct {
	RawBody []byte `contentType:"application/json"`
}

type StartScanResponse struct {
	Body struct {
		ScanID string `json:"scanId" doc:"Scan cycle identifier"`
	}
}

type StopScanResponse struct {
	Body struct {
		Stopped bool `json:"stopped" doc:"Whether a scan was active"`
	}
}

// ResultView is a sample with its classification and visual encoding
type ResultView struct {
	Index     int                 `json:"index" doc:"Position in the result set"`
	Frequency float64             `json:"frequency" doc:"Frequency in Hz"`
	Label     string              `json:"label" example:"100.00 MHz" doc:"Human readable frequency"`
	Strength  float64             `json:"strength" doc:"Signal strength in dB"`
	Band      spectrum.BandLabel  `json:"band" doc:"Band classification"`
	Usage     string              `json:"usage" doc:"Typical use of the band"`
	Percent   float64             `json:"percent" minimum:"0" maximum:"100" doc:"Strength clamped to 0-100"`
	Class     spectrum.ColorClass `json:"class" enum:"low,medium,high" doc:"Strength class"`
	Color     string              `json:"color" example:"#00ff00" doc:"Class colour"`
	Detected  bool                `json:"detected" doc:"Strength is above the configured noise level"`
}

// SelectionView is the selection state with the selected result
type SelectionView struct {
	State  string      `json:"state" enum:"none,selected" doc:"Selection state"`
	Result *ResultView `json:"result,omitempty" doc:"Selected result"`
}

// StateView is the scanner state without the result set
type StateView struct {
	Version    uint64        `json:"version" doc:"Incremented on every state change"`
	ScanID     string        `json:"scanId,omitempty" doc:"Current scan cycle"`
	IsScanning bool          `json:"isScanning" doc:"Whether a scan is active"`
	Config     *scan.Config  `json:"config,omitempty" doc:"Configuration of the current scan, frequencies in Hz"`
	Results    int           `json:"results" doc:"Number of results"`
	Selection  SelectionView `json:"selection"`
	LastError  string        `json:"lastError,omitempty" doc:"Failure of the last scan"`
}

type StateResponse struct {
	Body StateView
}

type ResultsResponse struct {
	Body struct {
		ScanID     string       `json:"scanId,omitempty" doc:"Scan cycle the results belong to"`
		IsScanning bool         `json:"isScanning" doc:"Whether more results may arrive"`
		Results    []ResultView `json:"results"`
	}
}

type SeriesResponse struct {
	Body struct {
		Domain *spectrum.FrequencyRange `json:"domain,omitempty" doc:"Chart x-axis domain in Hz"`
		Points []spectrum.SeriesPoint   `json:"points" doc:"Points sorted by frequency"`
	}
}

type PeaksRequest struct {
	N int `query:"n" minimum:"1" maximum:"1000" default:"5" doc:"Number of peaks"`
}

type PeaksResponse struct {
	Body []ResultView
}

type SelectRequest struct {
	Body struct {
		Index *int `json:"index,omitempty" doc:"Result to select, omit to clear the selection"`
	}
}

type SelectionResponse struct {
	Body SelectionView
}

type ChartRequest struct {
	Width  int `query:"width" minimum:"0" maximum:"4096" doc:"Image width in pixels, 0 for the configured width"`
	Height int `query:"height" minimum:"0" maximum:"4096" doc:"Image height in pixels, 0 for the configured height"`
}

type ChartResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// StreamMessage is sent to websocket clients on every state change
type StreamMessage struct {
	Type    string                 `json:"type"`
	State   StateView              `json:"state"`
	Results []ResultView           `json:"results"`
	Series  []spectrum.SeriesPoint `json:"series"`
}
