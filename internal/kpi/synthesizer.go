package kpi

import (
	"call-data-gen/internal/randval"
)

// Record is one periodic KPI measurement for an SBC asset, shipped to the
// pipeline as-is. Immutable after construction.
type Record struct {
	SBCName        string       `json:"sbcName"`
	CycleTimestamp int64        `json:"cycleTimestamp"`
	KPIType        string       `json:"kpiType"`
	AssetType      AssetType    `json:"assetType"`
	ServiceType    string       `json:"serviceType,omitempty"`
	SBCKPIs        []IPGroupKPI `json:"sbcKpis"`
}

// IPGroupKPI carries the media-quality averages for one ip group.
type IPGroupKPI struct {
	IPGroupName            string  `json:"ipGroupName"`
	MediaJitterInAvg       float64 `json:"mediaJitterInAvg"`
	MediaJitterOutAvg      float64 `json:"mediaJitterOutAvg"`
	MediaMOSInAvg          float64 `json:"mediaMOSInAvg"`
	MediaMOSOutAvg         float64 `json:"mediaMOSOutAvg"`
	MediaPacketLossInAvg   float64 `json:"mediaPacketLossInAvg"`
	MediaPacketLossOutAvg  float64 `json:"mediaPacketLossOutAvg"`
	MinutesOfUsage         int     `json:"minutesOfUsage"`
	AverageCallDurationAvg int     `json:"averageCallDurationAvg"`
}

// tier holds the value ranges one quality level draws from. MOS for the
// poor and medium tiers is a whole number; the good tier draws an unrounded
// decimal from its range.
type tier struct {
	jitterMin, jitterMax float64
	mosMin, mosMax       float64
	mosWhole             bool
	lossMin, lossMax     float64
}

var tiers = map[Quality]tier{
	QualityPoor:   {jitterMin: 50, jitterMax: 100, mosMin: 10, mosMax: 29, mosWhole: true, lossMin: 6.6, lossMax: 10},
	QualityMedium: {jitterMin: 30, jitterMax: 50, mosMin: 30, mosMax: 39, mosWhole: true, lossMin: 2.7, lossMax: 6.6},
}

// goodTier is the fallback for any quality value outside the named tiers.
var goodTier = tier{jitterMin: 0, jitterMax: 3, mosMin: 40, mosMax: 42, lossMin: 0, lossMax: 2.7}

func tierFor(q Quality) tier {
	if t, ok := tiers[q]; ok {
		return t
	}
	return goodTier
}

func (t tier) jitter() float64 {
	return randval.Decimal(t.jitterMin, t.jitterMax, 1)
}

func (t tier) mos() float64 {
	if t.mosWhole {
		return float64(randval.Integer(int(t.mosMin), int(t.mosMax)))
	}
	return randval.Decimal(t.mosMin, t.mosMax, -1)
}

func (t tier) packetLoss() float64 {
	return randval.Decimal(t.lossMin, t.lossMax, 1)
}

// SynthesizeAsset produces the KPI record for one asset at one interval
// boundary, with one IPGroupKPI per configured ip group name.
func SynthesizeAsset(asset AssetDescriptor, interval int64) Record {
	valueTier := tierFor(asset.Quality)

	kpis := make([]IPGroupKPI, 0, len(asset.IPGroupNames))
	for _, ipGroup := range asset.IPGroupNames {
		kpis = append(kpis, IPGroupKPI{
			IPGroupName:            ipGroup,
			MediaJitterInAvg:       valueTier.jitter(),
			MediaJitterOutAvg:      valueTier.jitter(),
			MediaMOSInAvg:          valueTier.mos(),
			MediaMOSOutAvg:         valueTier.mos(),
			MediaPacketLossInAvg:   valueTier.packetLoss(),
			MediaPacketLossOutAvg:  valueTier.packetLoss(),
			MinutesOfUsage:         randval.Integer(25, 45),
			AverageCallDurationAvg: randval.Integer(40, 360),
		})
	}

	record := Record{
		SBCName:        asset.SBCName,
		CycleTimestamp: interval,
		KPIType:        "historical",
		AssetType:      asset.AssetType,
		SBCKPIs:        kpis,
	}
	if asset.AssetType == AssetTypeMultitenant {
		record.ServiceType = asset.ServiceType
	}
	return record
}

// Synthesize produces one record per asset for the given interval boundary.
func Synthesize(assets []AssetDescriptor, interval int64) []Record {
	records := make([]Record, 0, len(assets))
	for _, asset := range assets {
		records = append(records, SynthesizeAsset(asset, interval))
	}
	return records
}
