package spectrum

const (
	BandHF      BandLabel = "HF"
	BandVHF     BandLabel = "VHF"
	BandUHF     BandLabel = "UHF"
	BandSHF     BandLabel = "SHF"
	BandEHF     BandLabel = "EHF"
	BandUnknown BandLabel = "Unknown"
)

// BandLabel is the name of a spectrum band.
type BandLabel string

func (l BandLabel) String() string {
	return string(l)
}

// Band represents a named region of the spectrum and its conventional use.
type Band struct {
	FrequencyRange
	Label BandLabel `json:"label"`
	Usage string    `json:"usage"`
}

// UnknownBand contains no frequency.
var UnknownBand = Band{Label: BandUnknown, Usage: "Unknown Frequency Range"}

// bands is ordered low to high. HF is closed at both ends, every band above
// it is open at its lower bound, so a shared boundary belongs to the lower band.
var bands = []Band{
	{
		Label:          BandHF,
		Usage:          "HF - Shortwave Radio",
		FrequencyRange: FrequencyRange{Start: 3e6, Stop: 30e6},
	},
	{
		Label:          BandVHF,
		Usage:          "VHF - TV Broadcast, FM Radio, Air Traffic Control",
		FrequencyRange: FrequencyRange{Start: 30e6, Stop: 300e6},
	},
	{
		Label:          BandUHF,
		Usage:          "UHF - Mobile Phones, Wi-Fi, Bluetooth, GPS",
		FrequencyRange: FrequencyRange{Start: 300e6, Stop: 3e9},
	},
	{
		Label:          BandSHF,
		Usage:          "SHF - Radar, Satellite Communications, Microwave Ovens",
		FrequencyRange: FrequencyRange{Start: 3e9, Stop: 30e9},
	},
	{
		Label:          BandEHF,
		Usage:          "EHF - Radio Astronomy, High-Frequency Data Links",
		FrequencyRange: FrequencyRange{Start: 30e9, Stop: 300e9},
	},
}

// Bands returns the classified bands in ascending frequency order.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Classify returns the band containing f, or UnknownBand.
func Classify(f float64) Band {
	for i, b := range bands {
		if f > b.Stop {
			continue
		}
		if f > b.Start || (i == 0 && f == b.Start) {
			return b
		}
		break
	}
	return UnknownBand
}
