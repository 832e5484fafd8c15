package laika

/*------------------------------------------------------------------
 *
 * Purpose:	Optional YAML configuration file for the command line
 *		tools.  Flags still win; the file just sets the mode a
 *		station normally runs.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ModemConfig struct {
	Tones      int     `yaml:"tones"`
	Bandwidth  int     `yaml:"bandwidth"`
	Edge       float64 `yaml:"edge"`
	SampleRate int     `yaml:"sample_rate"`
	InputRate  float64 `yaml:"input_rate"`
	OutputRate float64 `yaml:"output_rate"`
	Margin     int     `yaml:"margin"`
	IntegLen   int     `yaml:"integ_len"`
	Threshold  float64 `yaml:"threshold"`
}

// LoadModemConfig reads a YAML mode description.  A missing file is
// not an error when optional is set.
func LoadModemConfig(path string, optional bool) (*ModemConfig, error) {
	var raw, err = os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	var config ModemConfig
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &config, nil
}

// Apply copies the set (non-zero) fields onto the parameters.
func (c *ModemConfig) Apply(p *Parameters) {
	if c == nil {
		return
	}
	if c.Tones > 0 {
		p.BitsPerSymbol = int(log2(c.Tones))
	}
	if c.Bandwidth > 0 {
		p.Bandwidth = c.Bandwidth
	}
	if c.Edge > 0 {
		p.LowerBandEdge = c.Edge
	}
	if c.SampleRate > 0 {
		p.SampleRate = c.SampleRate
	}
	if c.InputRate > 0 {
		p.InputSampleRate = c.InputRate
	}
	if c.OutputRate > 0 {
		p.OutputSampleRate = c.OutputRate
	}
	if c.Margin > 0 {
		p.RxSyncMargin = c.Margin
	}
	if c.IntegLen > 0 {
		p.RxSyncIntegLen = c.IntegLen
	}
	if c.Threshold > 0 {
		p.RxSyncThreshold = c.Threshold
	}
}
