package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EmployeeStatusActive   = "aktif"
	EmployeeStatusStandby  = "standby"
	EmployeeStatusInactive = "nonaktif"

	AssignmentActive = "aktif"
	AssignmentEnded  = "selesai"

	ContractActive = "aktif"
	ContractEnded  = "selesai"

	DocumentKTP    = "ktp"
	DocumentIjazah = "ijazah"
	DocumentPhoto  = "foto"
)

var (
	EmployeeStatuses = []string{EmployeeStatusActive, EmployeeStatusStandby, EmployeeStatusInactive}
	ContractStatuses = []string{ContractActive, ContractEnded}
	DocumentTypes    = []string{DocumentKTP, DocumentIjazah, DocumentPhoto}
)

type Employee struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId,omitempty"`
	Username   string     `json:"username,omitempty"`
	Name       string     `json:"name"`
	Position   string     `json:"position"`
	JobType    string     `json:"jobType"`
	JoinDate   time.Time  `json:"joinDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Status     string     `json:"status"`
	Photo      string     `json:"photo,omitempty"`
	ClientID   string     `json:"clientId,omitempty"`
	ClientName string     `json:"clientName,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type EmployeeInput struct {
	Name     string
	Position string
	JobType  string
	JoinDate time.Time
	EndDate  *time.Time
	Status   string
	Photo    string
}

// NewAccount is the login created alongside an employee or client.
type NewAccount struct {
	Username     string
	PasswordHash string
	Role         string
}

type Client struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId,omitempty"`
	Username        string    `json:"username,omitempty"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	ContactPerson   string    `json:"contactPerson"`
	Phone           string    `json:"phone"`
	ActiveEmployees int       `json:"activeEmployees"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ClientInput struct {
	Name          string
	Address       string
	ContactPerson string
	Phone         string
}

type Contract struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Value     decimal.Decimal `json:"value"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Assignment struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	Position     string     `json:"position,omitempty"`
	ClientID     string     `json:"clientId"`
	ClientName   string     `json:"clientName,omitempty"`
	Location     string     `json:"location"`
	Shift        string     `json:"shift"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Status       string     `json:"status"`
}

type AssignmentInput struct {
	ClientID  string
	Location  string
	Shift     string
	StartDate time.Time
}

type AssignmentFilter struct {
	EmployeeID string
	ClientID   string
	ActiveOnly bool
}

type ActivityLog struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Description  string    `json:"description"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ActivityInput struct {
	EmployeeID  string
	Description string
	Latitude    *float64
	Longitude   *float64
	Photo       string
}

// ActivityFilter bounds are inclusive instants; zero means open.
type ActivityFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
}

type PersonalDetail struct {
	EmployeeID        string     `json:"employeeId"`
	NIK               string     `json:"nik"`
	FullName          string     `json:"fullName"`
	Nickname          string     `json:"nickname"`
	Gender            string     `json:"gender"`
	BirthPlace        string     `json:"birthPlace"`
	BirthDate         *time.Time `json:"birthDate,omitempty"`
	AddressKTP        string     `json:"addressKtp"`
	AddressCurrent    string     `json:"addressCurrent"`
	Education         string     `json:"education"`
	LastJob           string     `json:"lastJob"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email"`
	BloodType         string     `json:"bloodType"`
	HeightCm          *int       `json:"heightCm,omitempty"`
	WeightKg          *int       `json:"weightKg,omitempty"`
	ShirtSize         string     `json:"shirtSize"`
	ShoeSize          string     `json:"shoeSize"`
	MaritalStatus     string     `json:"maritalStatus"`
	SpouseName        string     `json:"spouseName"`
	SpouseJob         string     `json:"spouseJob"`
	NumChildren       *int       `json:"numChildren,omitempty"`
	BPJSEmployment    string     `json:"bpjsEmployment"`
	BPJSHealth        string     `json:"bpjsHealth"`
	ParentsName       string     `json:"parentsName"`
	ParentsAddress    string     `json:"parentsAddress"`
	NumSiblings       *int       `json:"numSiblings,omitempty"`
	NoteHealth        string     `json:"noteHealth"`
	EmergencyName     string     `json:"emergencyName"`
	EmergencyPhone    string     `json:"emergencyPhone"`
	EmergencyRelation string     `json:"emergencyRelation"`
	EmergencyAddress  string     `json:"emergencyAddress"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

type Document struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	DocumentType string    `json:"documentType"`
	FilePath     string    `json:"filePath"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type Counts struct {
	Employees         int `json:"employees"`
	ActiveEmployees   int `json:"activeEmployees"`
	Clients           int `json:"clients"`
	ActiveAssignments int `json:"activeAssignments"`
	ActiveContracts   int `json:"activeContracts"`
	Accounts          int `json:"accounts"`
	InactiveAccounts  int `json:"inactiveAccounts"`
}
