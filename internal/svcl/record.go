package svcl

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Record is one row of svcl's /sjson output. Only the columns sinkswitch
// uses are decoded.
type Record struct {
	Name                  string `json:"Name"`
	Type                  string `json:"Type"`
	Direction             string `json:"Direction"`
	DeviceName            string `json:"Device Name"`
	Default               string `json:"Default"`
	DefaultMultimedia     string `json:"Default Multimedia"`
	DefaultCommunications string `json:"Default Communications"`
	DeviceState           string `json:"Device State"`
	ItemID                string `json:"Item ID"`
}

func (r Record) isRenderDevice() bool {
	return r.Direction == directionRender && r.Type == typeDevice
}

func (r Record) isDefaultRender() bool {
	return r.DefaultMultimedia == directionRender
}

// Device projects the record into the displayed form "Name(Device Name)".
func (r Record) Device() Device {
	return Device{
		Name:      fmt.Sprintf("%s(%s)", r.Name, r.DeviceName),
		DeviceID:  r.ItemID,
		IsDefault: r.isDefaultRender(),
	}
}

// decodeOutput parses svcl JSON output, which may start with a UTF-8 or
// UTF-16 byte order mark.
func decodeOutput(data []byte) ([]Record, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(decoded, &records); err != nil {
		return nil, err
	}
	return records, nil
}
