package kpi

import (
	"call-data-gen/internal/validate"
)

// AssetType classifies an SBC asset.
type AssetType string

const (
	AssetTypeMultitenant AssetType = "Multitenant"
	AssetTypeDedicated   AssetType = "Dedicated"
)

// Quality selects the value tier for synthesized media metrics. Any value
// other than poor or medium falls back to the good tier.
type Quality string

const (
	QualityPoor   Quality = "poor"
	QualityMedium Quality = "medium"
	QualityGood   Quality = "good"
)

// AssetDescriptor describes one SBC asset to synthesize KPI records for.
// ServiceType is required for Multitenant assets and ignored otherwise.
type AssetDescriptor struct {
	SBCName      string    `json:"sbcName"`
	AssetType    AssetType `json:"assetType"`
	ServiceType  string    `json:"serviceType,omitempty"`
	IPGroupNames []string  `json:"ipGroupNames"`
	Quality      Quality   `json:"quality"`
}

// ValidateAssets checks the whole request body at once and returns a
// *validate.Error carrying every field-level problem found. It runs before
// any interval processing so a malformed request never reaches the sink.
func ValidateAssets(assets []AssetDescriptor) error {
	verr := &validate.Error{}
	if len(assets) == 0 {
		verr.Addf("expected at least 1 asset to be supplied in the request")
		return verr
	}
	for i, asset := range assets {
		if asset.SBCName == "" {
			verr.Addf("assets[%d].sbcName is required", i)
		}
		switch asset.AssetType {
		case AssetTypeMultitenant:
			if asset.ServiceType == "" {
				verr.Addf("assets[%d].serviceType is required for Multitenant assets", i)
			}
		case AssetTypeDedicated:
		case "":
			verr.Addf("assets[%d].assetType is required", i)
		default:
			verr.Addf("assets[%d].assetType must be Multitenant or Dedicated, got %q", i, asset.AssetType)
		}
		if len(asset.IPGroupNames) == 0 {
			verr.Addf("assets[%d].ipGroupNames must contain at least 1 entry", i)
		}
		if asset.Quality == "" {
			verr.Addf("assets[%d].quality is required", i)
		}
	}
	return verr.OrNil()
}
