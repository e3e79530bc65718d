package leads

// ValidStatus reports whether s is one of the five workflow statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusContacted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TerminalStatus reports whether no further work is expected on a lead.
func TerminalStatus(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// NextStatuses returns the advisory forward path from s. The store does
// not enforce it: staff can set any status directly to correct mistakes.
func NextStatuses(s Status) []Status {
	switch s {
	case StatusNew:
		return []Status{StatusContacted, StatusCancelled}
	case StatusContacted:
		return []Status{StatusInProgress, StatusCancelled}
	case StatusInProgress:
		return []Status{StatusCompleted, StatusCancelled}
	default:
		return nil
	}
}

// Stats holds aggregate counts per status over the full lead set.
// Cancelled leads are counted in Total but have no dedicated bucket.
type Stats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	Contacted  int `json:"contacted"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// ComputeStats counts leads by status.
func ComputeStats(all []*Lead) Stats {
	s := Stats{Total: len(all)}
	for _, l := range all {
		switch l.Status {
		case StatusNew:
			s.New++
		case StatusContacted:
			s.Contacted++
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		}
	}
	return s
}

// FilterByStatus returns the leads matching status, preserving order.
// An empty status or "all" passes everything through.
func FilterByStatus(all []*Lead, status Status) []*Lead {
	if status == "" || status == "all" {
		return all
	}
	out := make([]*Lead, 0, len(all))
	for _, l := range all {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out
}
