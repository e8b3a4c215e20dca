package worktime

// Labels are the fallback designation strings.
type Labels struct {
	Lead          string // lead without a rank
	Member        string // member without a rank
	UnknownRank   string // rank reference that is not in the firm's table
	UnknownPerson string // display name for an unresolvable person
}

func DefaultLabels() Labels {
	return Labels{
		Lead:          "Team Lead",
		Member:        "Team Member",
		UnknownRank:   "Unknown",
		UnknownPerson: "Unknown",
	}
}

// RankTable maps rank ids to labels for one firm.
type RankTable map[ID]string

func NewRankTable(ranks []Rank) RankTable {
	t := make(RankTable, len(ranks))
	for _, r := range ranks {
		t[r.ID] = r.Label
	}
	return t
}

// Designation resolves a person's rank label. fallback is returned when the
// person carries no rank; unknown when the rank is not in the table.
func (t RankTable) Designation(p Person, fallback, unknown string) string {
	if p.RankID == nil || p.RankID.IsZero() {
		return fallback
	}
	if label, ok := t[*p.RankID]; ok {
		return label
	}
	return unknown
}
