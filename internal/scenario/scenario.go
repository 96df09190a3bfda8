// Package scenario reads planning-cycle inputs from JSON files.
package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/velocity.plan/internal/speedlimit"
	"github.com/banshee-data/velocity.plan/internal/stboundary"
	"github.com/banshee-data/velocity.plan/internal/stspeed"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Boundary is the JSON form of one obstacle boundary.
type Boundary struct {
	ID                   string             `json:"id"`
	Type                 string             `json:"type"`
	CharacteristicLength float64            `json:"characteristic_length,omitempty"`
	Points               []stboundary.Point `json:"points"`
}

// Scenario is one planning cycle as stored on disk.
type Scenario struct {
	Name       string             `json:"name,omitempty"`
	InitPoint  stspeed.InitPoint  `json:"init_point"`
	PathLength float64            `json:"path_length"`
	SpeedLimit []speedlimit.Point `json:"speed_limit"`
	Boundaries []Boundary         `json:"boundaries,omitempty"`
}

// Load reads a scenario file. When the document has no name, the file name
// without extension is used.
func Load(path string) (*Scenario, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("scenario file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scenario file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("scenario file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(cleanPath), ".json")
	}
	return sc, nil
}

// Parse decodes a scenario document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	return &sc, nil
}

// ToInput validates the scenario and converts it to planner input.
func (sc *Scenario) ToInput() (stspeed.Input, error) {
	limit, err := speedlimit.New(sc.SpeedLimit)
	if err != nil {
		return stspeed.Input{}, fmt.Errorf("speed_limit: %w", err)
	}

	boundaries := make([]*stboundary.Boundary, 0, len(sc.Boundaries))
	for i, raw := range sc.Boundaries {
		bt, err := stboundary.ParseBoundaryType(raw.Type)
		if err != nil {
			return stspeed.Input{}, fmt.Errorf("boundaries[%d]: %w", i, err)
		}
		id := raw.ID
		if id == "" {
			id = fmt.Sprintf("boundary-%d", i)
		}
		b, err := stboundary.New(id, bt, raw.Points)
		if err != nil {
			return stspeed.Input{}, fmt.Errorf("boundaries[%d]: %w", i, err)
		}
		b.CharacteristicLength = raw.CharacteristicLength
		boundaries = append(boundaries, b)
	}

	return stspeed.Input{
		InitPoint:      sc.InitPoint,
		SpeedLimit:     limit,
		Boundaries:     boundaries,
		PathDataLength: sc.PathLength,
	}, nil
}
