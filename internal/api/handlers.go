package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roman-kulish/spectrum-scanner/internal/chart"
	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

func (s *Server) health(_ context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = Version
	resp.Body.Time = time.Now()
	return resp, nil
}

func (s *Server) defaults(_ context.Context, _ *struct{}) (*DefaultsResponse, error) {
	resp := &DefaultsResponse{}
	resp.Body.Config = scan.DefaultRawConfig()
	resp.Body.Units = spectrum.Units()
	return resp, nil
}

func (s *Server) bands(_ context.Context, _ *struct{}) (*BandsResponse, error) {
	bands := spectrum.Bands()

	resp := &BandsResponse{Body: make([]BandView, len(bands))}
	for i, b := range bands {
		resp.Body[i] = BandView{Label: b.Label, Usage: b.Usage, Start: b.Start, Stop: b.Stop}
	}
	return resp, nil
}

func (s *Server) presets(_ context.Context, _ *struct{}) (*PresetsResponse, error) {
	return &PresetsResponse{Body: scan.Presets()}, nil
}

func (s *Server) startScan(ctx context.Context, req *StartScanRequest) (*StartScanResponse, error) {
	raw := scan.DefaultRawConfig()
	if len(bytes.TrimSpace(req.RawBody)) > 0 {
		var err error
		if raw, err = scan.DecodeRequest(req.RawBody); err != nil {
			return nil, huma.Error400BadRequest("Malformed scan request", err)
		}
	}

	// The scan outlives the request
	id, err := s.scanner.Start(context.WithoutCancel(ctx), raw)
	if err != nil {
		if !errors.Is(err, scan.ErrConfigInvalid) {
			s.logger.Warn("scan rejected", slog.String("error", err.Error()))
		}
		return nil, problem(err)
	}

	resp := &StartScanResponse{}
	resp.Body.ScanID = id.String()
	return resp, nil
}

func (s *Server) stopScan(_ context.Context, _ *struct{}) (*StopScanResponse, error) {
	resp := &StopScanResponse{}
	resp.Body.Stopped = s.scanner.Stop()
	return resp, nil
}

func (s *Server) state(_ context.Context, _ *struct{}) (*StateResponse, error) {
	return &StateResponse{Body: stateView(s.scanner.Snapshot())}, nil
}

func (s *Server) results(_ context.Context, _ *struct{}) (*ResultsResponse, error) {
	snapshot := s.scanner.Snapshot()

	resp := &ResultsResponse{}
	if snapshot.Config != nil {
		resp.Body.ScanID = snapshot.ScanID.String()
	}
	resp.Body.IsScanning = snapshot.IsScanning
	resp.Body.Results = resultViews(snapshot)
	return resp, nil
}

func (s *Server) clearResults(_ context.Context, _ *struct{}) (*struct{}, error) {
	if err := s.scanner.ClearResults(); err != nil {
		return nil, problem(err)
	}
	return nil, nil
}

func (s *Server) series(_ context.Context, _ *struct{}) (*SeriesResponse, error) {
	snapshot := s.scanner.Snapshot()

	resp := &SeriesResponse{}
	resp.Body.Points = snapshot.Series()
	if snapshot.Config != nil {
		domain := snapshot.Config.Domain()
		resp.Body.Domain = &domain
	}
	return resp, nil
}

func (s *Server) peaks(_ context.Context, req *PeaksRequest) (*PeaksResponse, error) {
	return &PeaksResponse{Body: peakViews(s.scanner.Snapshot(), req.N)}, nil
}

func (s *Server) selection(_ context.Context, _ *struct{}) (*SelectionResponse, error) {
	return &SelectionResponse{Body: selectionView(s.scanner.Snapshot())}, nil
}

func (s *Server) selectResult(_ context.Context, req *SelectRequest) (*SelectionResponse, error) {
	if req.Body.Index == nil {
		s.scanner.ClearSelection()
	} else if _, err := s.scanner.Select(*req.Body.Index); err != nil {
		return nil, problem(err)
	}

	return &SelectionResponse{Body: selectionView(s.scanner.Snapshot())}, nil
}

func (s *Server) chartImage(_ context.Context, req *ChartRequest) (*ChartResponse, error) {
	snapshot := s.scanner.Snapshot()
	if snapshot.Config == nil {
		return nil, huma.Error404NotFound("No scan has been started")
	}

	config := s.chart
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}

	renderer, err := chart.NewRenderer(config)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid chart size", err)
	}

	var buf bytes.Buffer
	if err = renderer.WritePNG(&buf, snapshot.Series(), snapshot.Config.Domain()); err != nil {
		return nil, huma.Error500InternalServerError("Failed to render chart", fmt.Errorf("rendering chart: %w", err))
	}

	return &ChartResponse{ContentType: "image/png", Body: buf.Bytes()}, nil
}
