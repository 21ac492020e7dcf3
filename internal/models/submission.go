package models

import (
	"bytes"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission lifecycle statuses. Records are created as StatusPending and are
// never mutated by this service; status transitions happen out of band.
const (
	StatusPending = "pending"
)

// Age bands offered by the program.
var AgeBands = []string{"6-8", "9-12", "13-16"}

// FlexInt unmarshals from either a JSON number or a numeric string. The forms
// submit childAge as a string, the admin tooling as a number.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		// Non-numeric input fails the age range check downstream instead of
		// aborting the JSON decode with an opaque error.
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// EnrollmentRequest is the POST /api/v1/enroll payload.
type EnrollmentRequest struct {
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone"`
	Country               string   `json:"country"`
	Timezone              string   `json:"timezone"`
	HowHeard              string   `json:"howHeard"`
	HowHeardOther         string   `json:"howHeardOther"`
	ChildName             string   `json:"childName"`
	ChildAge              FlexInt  `json:"childAge"`
	SchoolingStructure    string   `json:"schoolingStructure"`
	AgeBand               string   `json:"ageBand"`
	PromptInterest        string   `json:"promptInterest"`
	FormationAreas        []string `json:"formationAreas"`
	ChildTemperament      string   `json:"childTemperament"`
	ChildAt25             string   `json:"childAt25"`
	ParentInvolvement     string   `json:"parentInvolvement"`
	StructuredEnvironment string   `json:"structuredEnvironment"`
	FaithValues           string   `json:"faithValues"`
	InvestmentReady       string   `json:"investmentReady"`
	AdditionalInfo        string   `json:"additionalInfo"`
}

// WaitingListRequest is the POST /api/v1/waiting-list payload.
type WaitingListRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	ChildName string  `json:"childName"`
	ChildAge  FlexInt `json:"childAge"`
	AgeBand   string  `json:"ageBand"`
	Message   string  `json:"message"`
}

// Enrollment is the document stored in the enrollments collection.
type Enrollment struct {
	ID                    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName             string    `json:"firstName" bson:"firstName"`
	LastName              string    `json:"lastName" bson:"lastName"`
	Email                 string    `json:"email" bson:"email"`
	Phone                 string    `json:"phone" bson:"phone"`
	Country               string    `json:"country" bson:"country"`
	Timezone              string    `json:"timezone" bson:"timezone"`
	HowHeard              string    `json:"howHeard" bson:"howHeard"`
	HowHeardOther         *string   `json:"howHeardOther" bson:"howHeardOther"`
	ChildName             string    `json:"childName" bson:"childName"`
	ChildAge              int       `json:"childAge" bson:"childAge"`
	SchoolingStructure    string    `json:"schoolingStructure" bson:"schoolingStructure"`
	AgeBand               string    `json:"ageBand" bson:"ageBand"`
	PromptInterest        string    `json:"promptInterest" bson:"promptInterest"`
	FormationAreas        []string  `json:"formationAreas" bson:"formationAreas"`
	ChildTemperament      string    `json:"childTemperament" bson:"childTemperament"`
	ChildAt25             string    `json:"childAt25" bson:"childAt25"`
	ParentInvolvement     string    `json:"parentInvolvement" bson:"parentInvolvement"`
	StructuredEnvironment string    `json:"structuredEnvironment" bson:"structuredEnvironment"`
	FaithValues           string    `json:"faithValues" bson:"faithValues"`
	InvestmentReady       string    `json:"investmentReady" bson:"investmentReady"`
	AdditionalInfo        *string   `json:"additionalInfo" bson:"additionalInfo"`
	SubmittedAt           time.Time `json:"submittedAt" bson:"submittedAt"`
	IPAddress             string    `json:"ipAddress" bson:"ipAddress"`
	Status                string    `json:"status" bson:"status"`
}

// WaitingListEntry is the document stored in the waiting-list collection.
type WaitingListEntry struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName   string    `json:"firstName" bson:"firstName"`
	LastName    string    `json:"lastName" bson:"lastName"`
	Email       string    `json:"email" bson:"email"`
	Phone       string    `json:"phone" bson:"phone"`
	ChildName   string    `json:"childName" bson:"childName"`
	ChildAge    int       `json:"childAge" bson:"childAge"`
	AgeBand     string    `json:"ageBand" bson:"ageBand"`
	Message     *string   `json:"message" bson:"message"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
	IPAddress   string    `json:"ipAddress" bson:"ipAddress"`
	Status      string    `json:"status" bson:"status"`
}

// SubmissionResponse is returned on a successful form submission.
type SubmissionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination computes the pagination block for a listing response.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// EnrollmentListResponse is the admin enrollments listing payload.
type EnrollmentListResponse struct {
	Success    bool         `json:"success"`
	Data       []Enrollment `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// WaitingListListResponse is the admin waiting-list listing payload.
type WaitingListListResponse struct {
	Success    bool               `json:"success"`
	Data       []WaitingListEntry `json:"data"`
	Pagination Pagination         `json:"pagination"`
}
