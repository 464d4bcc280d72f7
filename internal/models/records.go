package models

type BountyRecord struct {
	Category           RunCategory `json:"category"`
	BestBounty         int64       `json:"bestBounty"`
	SubmittedAnonymous bool        `json:"submittedAnonymous"`
}

// SpeedrunStageRecord holds the best clear time of one stage. BestSeconds == 0 means unset.
type SpeedrunStageRecord struct {
	Category           RunCategory `json:"category"`
	Stage              int         `json:"stage"`
	BestSeconds        float64     `json:"bestSeconds"`
	SubmittedAnonymous bool        `json:"submittedAnonymous"`
}

func (r *SpeedrunStageRecord) IsSet() bool {
	return r != nil && r.BestSeconds > 0
}

type RestrictionKind int

const (
	RestrictionNone RestrictionKind = iota
	RestrictionSuspicion
	RestrictionCheatingCertainty
)

func (k RestrictionKind) String() string {
	switch k {
	case RestrictionSuspicion:
		return "suspicion"
	case RestrictionCheatingCertainty:
		return "cheating_certainty"
	default:
		return "none"
	}
}

type AppealStatus int

const (
	AppealNotSubmitted AppealStatus = iota
	AppealUnderReview
	AppealDenied
	AppealApproved
)

func (s AppealStatus) String() string {
	switch s {
	case AppealUnderReview:
		return "under_review"
	case AppealDenied:
		return "denied"
	case AppealApproved:
		return "approved"
	default:
		return "not_submitted"
	}
}

type AccountRestrictionRecord struct {
	Kind                 RestrictionKind `json:"kind"`
	Reason               string          `json:"reason"`
	LinkedRunSummarySlot string          `json:"linkedRunSummarySlot"`
	AppealStatus         AppealStatus    `json:"appealStatus"`
	LastAppealMessage    string          `json:"lastAppealMessage"`
	LastEvidenceUrl      string          `json:"lastEvidenceUrl"`
}

func (r AccountRestrictionRecord) Restricted() bool {
	return r.Kind != RestrictionNone
}
