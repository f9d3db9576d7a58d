package models

import "time"

// Nomination states
const (
	StateDraft     = "draft"
	StateSubmitted = "submitted"
	StateApproved  = "approved"
	StateRejected  = "rejected"
)

// Nominee types
const (
	NomineePerson  = "person"
	NomineeCompany = "company"
)

// Nomination sources
const (
	SourceForm = "form"
	SourceBulk = "bulk"
)

// Bulk upload batch status
const (
	BatchProcessing          = "processing"
	BatchCompleted           = "completed"
	BatchCompletedWithErrors = "completed_with_errors"
	BatchFailed              = "failed"
)

// Row error classification
const (
	ErrorValidation      = "validation"
	ErrorMissingRequired = "missing_required"
	ErrorDuplicate       = "duplicate"
	ErrorProcessing      = "processing"
)

// Outbox targets, events and status
const (
	TargetHubSpot = "hubspot"
	TargetLoops   = "loops"

	EventNominationApproved = "nomination_approved"
	EventVoteCast           = "vote_cast"

	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// Domain types

type Category struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	GroupName   string `json:"group"`
	NomineeType string `json:"nomineeType"`
}

type Nominator struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Nominee holds identity data only. Person fields and company fields are
// mutually exclusive and selected by Type.
type Nominee struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Country      string `json:"country,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Achievements string `json:"achievements,omitempty"`

	// person
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	JobTitle    *string `json:"jobTitle,omitempty"`
	Employer    *string `json:"employer,omitempty"`
	HeadshotURL *string `json:"headshotUrl,omitempty"`

	// company
	CompanyName *string `json:"companyName,omitempty"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	CompanySize *string `json:"companySize,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName is the person's full name or the company name.
func (n Nominee) DisplayName() string {
	if n.Type == NomineeCompany {
		if n.CompanyName != nil {
			return *n.CompanyName
		}
		return ""
	}
	var first, last string
	if n.FirstName != nil {
		first = *n.FirstName
	}
	if n.LastName != nil {
		last = *n.LastName
	}
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

type Nomination struct {
	ID              string     `json:"id"`
	NominatorID     string     `json:"nominatorId"`
	NomineeID       string     `json:"nomineeId"`
	CategoryID      string     `json:"categoryId"`
	State           string     `json:"state"`
	WhyVote         string     `json:"whyVote"`
	Votes           int        `json:"votes"`
	AdditionalVotes int        `json:"additionalVotes"`
	LiveSlug        *string    `json:"liveSlug,omitempty"`
	LiveURL         *string    `json:"liveUrl,omitempty"`
	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	AdminNotes      *string    `json:"adminNotes,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	SyncPending     bool       `json:"syncPending"`
	Source          string     `json:"source"`
	UploadBatchID   *string    `json:"uploadBatchId,omitempty"`
	UploadRowNumber *int       `json:"uploadRowNumber,omitempty"`
	UploadedBy      *string    `json:"uploadedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TotalVotes is the publicly displayed vote count.
func (n Nomination) TotalVotes() int {
	return n.Votes + n.AdditionalVotes
}

// NominationDetail is a nomination joined with its nominee and nominator.
type NominationDetail struct {
	Nomination
	TotalVotes int       `json:"totalVotes"`
	Nominee    Nominee   `json:"nominee"`
	Nominator  Nominator `json:"nominator"`
}

type Voter struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Company   string    `json:"company,omitempty"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UploadBatch struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	NomineeType    string     `json:"nomineeType"`
	TotalRows      int        `json:"totalRows"`
	SuccessfulRows int        `json:"successfulRows"`
	FailedRows     int        `json:"failedRows"`
	DraftRows      int        `json:"draftRows"`
	Status         string     `json:"status"`
	UploadedBy     string     `json:"uploadedBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

type UploadError struct {
	ID           string    `json:"id"`
	BatchID      string    `json:"batchId"`
	RowNumber    int       `json:"rowNumber"`
	Field        string    `json:"field"`
	ErrorType    string    `json:"errorType"`
	Message      string    `json:"message"`
	SuggestedFix string    `json:"suggestedFix,omitempty"`
	RawData      string    `json:"rawData,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type OutboxEntry struct {
	ID           string     `json:"id"`
	Target       string     `json:"target"`
	Event        string     `json:"event"`
	NominationID *string    `json:"nominationId,omitempty"`
	Payload      string     `json:"payload"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	LastError    *string    `json:"lastError,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	SentAt       *time.Time `json:"sentAt,omitempty"`
}

// SyncContact is the identifying payload handed to CRM and email systems.
type SyncContact struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Role        string `json:"role"`
	Category    string `json:"category,omitempty"`
	LiveURL     string `json:"liveUrl,omitempty"`
}

// Request types

type NominationFormRequest struct {
	Type       string `json:"type"`
	CategoryID string `json:"categoryId"`
	WhyVote    string `json:"whyVote"`

	Nominee struct {
		Email        string `json:"email"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		JobTitle     string `json:"jobTitle"`
		CompanyName  string `json:"companyName"`
		Website      string `json:"website"`
		Phone        string `json:"phone"`
		Country      string `json:"country"`
		LinkedIn     string `json:"linkedin"`
		Bio          string `json:"bio"`
		Achievements string `json:"achievements"`
		HeadshotURL  string `json:"headshotUrl"`
		LogoURL      string `json:"logoUrl"`
		Industry     string `json:"industry"`
		CompanySize  string `json:"companySize"`
	} `json:"nominee"`

	Nominator struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Company  string `json:"company"`
		JobTitle string `json:"jobTitle"`
		Phone    string `json:"phone"`
		Country  string `json:"country"`
	} `json:"nominator"`
}

type UpdateNominationRequest struct {
	State           *string `json:"state,omitempty"`
	AdminNotes      *string `json:"adminNotes,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	AdditionalVotes *int    `json:"additionalVotes,omitempty"`
	CategoryID      *string `json:"categoryId,omitempty"`
}

type DecisionRequest struct {
	AdminNotes      string `json:"adminNotes,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

type CastVoteRequest struct {
	NominationID string `json:"nominationId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company"`
	JobTitle     string `json:"jobTitle"`
	LinkedIn     string `json:"linkedin"`
}

// Response types

type UploadSummary struct {
	TotalRows         int `json:"totalRows"`
	ValidationErrors  int `json:"validationErrors"`
	SuccessfulUploads int `json:"successfulUploads"`
	FailedUploads     int `json:"failedUploads"`
	DuplicatesFound   int `json:"duplicatesFound"`
}

type UploadResponse struct {
	Success   bool          `json:"success"`
	BatchID   string        `json:"batchId"`
	Summary   UploadSummary `json:"summary"`
	NextSteps []string      `json:"nextSteps"`
}

type BatchReport struct {
	Batch  UploadBatch   `json:"batch"`
	Errors []UploadError `json:"errors"`
}

type SubmitNominationResponse struct {
	NominationID string `json:"nominationId"`
	State        string `json:"state"`
}

type CastVoteResponse struct {
	VoteID     string `json:"voteId"`
	TotalVotes int    `json:"totalVotes"`
}

type VoteCount struct {
	NominationID string `json:"nominationId"`
	CategoryID   string `json:"categoryId"`
	DisplayName  string `json:"displayName"`
	Votes        int    `json:"votes"`
	TotalVotes   int    `json:"totalVotes"`
}

type DirectoryEntry struct {
	NominationID string  `json:"nominationId"`
	CategoryID   string  `json:"categoryId"`
	Type         string  `json:"type"`
	DisplayName  string  `json:"displayName"`
	Subtitle     string  `json:"subtitle,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	LiveSlug     string  `json:"liveSlug"`
	LiveURL      string  `json:"liveUrl"`
	TotalVotes   int     `json:"totalVotes"`
}

// NomineeProfile is the public page of an approved nominee.
type NomineeProfile struct {
	DirectoryEntry
	WhyVote      string  `json:"whyVote"`
	Bio          string  `json:"bio,omitempty"`
	Achievements string  `json:"achievements,omitempty"`
	LinkedIn     string  `json:"linkedin,omitempty"`
	Website      *string `json:"website,omitempty"`
	Country      string  `json:"country,omitempty"`
}

type CategoryStats struct {
	CategoryID  string `json:"categoryId"`
	Nominations int    `json:"nominations"`
	Approved    int    `json:"approved"`
	TotalVotes  int    `json:"totalVotes"`
}

type Stats struct {
	ByState     map[string]int  `json:"byState"`
	ByType      map[string]int  `json:"byType"`
	Voters      int             `json:"voters"`
	TotalVotes  int             `json:"totalVotes"`
	PendingSync int             `json:"pendingSync"`
	Categories  []CategoryStats `json:"categories"`
}

type BatchApprovalResponse struct {
	Approved int      `json:"approved"`
	Failed   []string `json:"failed,omitempty"`
}

type SyncRunResponse struct {
	Target  string `json:"target"`
	Claimed int    `json:"claimed"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
