package vendorq

// TaskPhase is this adapter's view of a vendor task's lifecycle. The vendor
// owns the wire values; anything we do not recognize maps to PhaseUnknown so a
// new vendor-side phase shows up as a typed branch instead of a silent skip.
type TaskPhase int

const (
	PhaseUnknown TaskPhase = iota
	PhaseRequested
	PhaseSubmitted
	PhaseReady
	PhaseError
)

func (p TaskPhase) String() string {
	switch p {
	case PhaseRequested:
		return "requested"
	case PhaseSubmitted:
		return "submitted"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Vendor wire codes for task status.
const (
	statusPending    = 1
	statusProcessing = 2
	statusReady      = 3
	statusError      = 4
)

func phaseFromStatus(status int) TaskPhase {
	switch status {
	case statusPending:
		return PhaseRequested
	case statusProcessing:
		return PhaseSubmitted
	case statusReady:
		return PhaseReady
	case statusError:
		return PhaseError
	default:
		return PhaseUnknown
	}
}

// Task is a captioning request owned by the vendor queue. The adapter never
// creates or deletes tasks, it only reads them and patches their status.
type Task struct {
	ID            int
	EntryID       string
	PartnerID     int
	CatalogItemID int
	Phase         TaskPhase
	// AccessKey is the per-task scoped session used for media and caption
	// calls on the task's entry.
	AccessKey string
}

// Rendition is an encoded variant of a media entry.
type Rendition struct {
	ID      string
	FileExt string
	Size    int64
}

type CaptionStatus int

const (
	CaptionStatusPending CaptionStatus = iota
	CaptionStatusReady
	CaptionStatusError
)

// Vendor wire codes for caption asset status.
const (
	captionStatusError = -1
	captionStatusReady = 2
)

func captionStatusFromCode(code int) CaptionStatus {
	switch code {
	case captionStatusReady:
		return CaptionStatusReady
	case captionStatusError:
		return CaptionStatusError
	default:
		return CaptionStatusPending
	}
}
