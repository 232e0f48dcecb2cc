package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrportal/internal/domain/auth"
)

type Options struct {
	EmployeePassword string
	ClientPassword   string
	Now              func() time.Time
}

type Service struct {
	store StoreAPI
	opts  Options
	hash  func(string) (string, error)
}

func NewService(store StoreAPI, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, opts: opts, hash: auth.HashPassword}
}

func (s *Service) today() time.Time {
	y, m, d := s.opts.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func normalizeEmployee(in *EmployeeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Position = strings.TrimSpace(in.Position)
	in.JobType = strings.TrimSpace(in.JobType)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Name == "" {
		return invalid("name", "is required")
	}
	if in.JoinDate.IsZero() {
		return invalid("join_date", "is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.JoinDate) {
		return invalid("end_date", "must be on or after join_date")
	}
	if in.Status == "" {
		in.Status = EmployeeStatusActive
	}
	if !oneOf(in.Status, EmployeeStatuses) {
		return invalid("status", "must be one of "+strings.Join(EmployeeStatuses, ", "))
	}
	return nil
}

func normalizeAssignment(in *AssignmentInput, fallbackStart time.Time) error {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.Location = strings.TrimSpace(in.Location)
	in.Shift = strings.TrimSpace(in.Shift)
	if in.ClientID == "" {
		return invalid("client_id", "is required")
	}
	if in.StartDate.IsZero() {
		in.StartDate = fallbackStart
	}
	return nil
}

// CreateEmployeeWithAccount provisions an employee login named after the
// employee and the optional first assignment. A taken username leaves nothing behind.
func (s *Service) CreateEmployeeWithAccount(ctx context.Context, in EmployeeInput, assignment *AssignmentInput) (Employee, error) {
	if err := normalizeEmployee(&in); err != nil {
		return Employee{}, err
	}
	account, err := s.newAccount(in.Name, s.opts.EmployeePassword, auth.RoleEmployee)
	if err != nil {
		return Employee{}, err
	}
	if assignment != nil {
		if err := normalizeAssignment(assignment, in.JoinDate); err != nil {
			return Employee{}, err
		}
	}
	return s.store.CreateEmployee(ctx, in, account, assignment)
}

// CreateEmployee registers an employee without a login.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput, assignment *AssignmentInput) (Employee, error) {
	if err := normalizeEmployee(&in); err != nil {
		return Employee{}, err
	}
	if assignment != nil {
		if err := normalizeAssignment(assignment, in.JoinDate); err != nil {
			return Employee{}, err
		}
	}
	return s.store.CreateEmployee(ctx, in, nil, assignment)
}

func (s *Service) newAccount(name, password string, role auth.Role) (*NewAccount, error) {
	username := DeriveUsername(name)
	if username == "" {
		return nil, invalid("name", "cannot be turned into a username")
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	return &NewAccount{Username: username, PasswordHash: hash, Role: string(role)}, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID string, in EmployeeInput) (Employee, error) {
	if err := normalizeEmployee(&in); err != nil {
		return Employee{}, err
	}
	return s.store.UpdateEmployee(ctx, employeeID, in)
}

// SetClient moves the employee to the given client, or ends the current
// assignment when assignment is nil. Same client means no change.
func (s *Service) SetClient(ctx context.Context, employeeID string, assignment *AssignmentInput) error {
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if assignment == nil {
		if emp.ClientID == "" {
			return nil
		}
		_, err := s.store.EndAssignment(ctx, employeeID, s.today())
		return err
	}
	if err := normalizeAssignment(assignment, s.today()); err != nil {
		return err
	}
	if assignment.ClientID == emp.ClientID {
		return nil
	}
	_, err = s.store.Reassign(ctx, employeeID, *assignment)
	return err
}

// AddAssignment refuses to open a second active assignment.
func (s *Service) AddAssignment(ctx context.Context, employeeID string, in AssignmentInput) (Assignment, error) {
	if err := normalizeAssignment(&in, s.today()); err != nil {
		return Assignment{}, err
	}
	return s.store.AddAssignment(ctx, employeeID, in)
}

func (s *Service) Reassign(ctx context.Context, employeeID string, in AssignmentInput) (Assignment, error) {
	if err := normalizeAssignment(&in, s.today()); err != nil {
		return Assignment{}, err
	}
	return s.store.Reassign(ctx, employeeID, in)
}

func (s *Service) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error) {
	return s.store.ListAssignments(ctx, filter)
}

// DeleteEmployee returns the removed employee and the stored files it owned
// so the caller can clean up uploads.
func (s *Service) DeleteEmployee(ctx context.Context, employeeID string) (Employee, []string, error) {
	docs, err := s.store.ListDocuments(ctx, employeeID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Employee{}, nil, err
	}
	emp, err := s.store.DeleteEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, nil, err
	}
	files := make([]string, 0, len(docs)+1)
	if emp.Photo != "" {
		files = append(files, emp.Photo)
	}
	for _, d := range docs {
		files = append(files, d.FilePath)
	}
	return emp, files, nil
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	return s.store.GetEmployeeByUserID(ctx, userID)
}

func (s *Service) ListEmployees(ctx context.Context, status string) ([]Employee, error) {
	return s.store.ListEmployees(ctx, status)
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.store.Counts(ctx)
}

func (s *Service) CreateClientWithAccount(ctx context.Context, in ClientInput) (Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return Client{}, invalid("name", "is required")
	}
	account, err := s.newAccount(in.Name, s.opts.ClientPassword, auth.RoleClient)
	if err != nil {
		return Client{}, err
	}
	return s.store.CreateClient(ctx, in, account)
}

func (s *Service) GetClient(ctx context.Context, clientID string) (Client, error) {
	return s.store.GetClient(ctx, clientID)
}

func (s *Service) GetClientByUserID(ctx context.Context, userID string) (Client, error) {
	return s.store.GetClientByUserID(ctx, userID)
}

func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.store.ListClients(ctx)
}

func (s *Service) DeleteClient(ctx context.Context, clientID string) (Client, error) {
	return s.store.DeleteClient(ctx, clientID)
}

func (s *Service) CreateContract(ctx context.Context, c Contract) (Contract, error) {
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
	if c.Status == "" {
		c.Status = ContractActive
	}
	if !oneOf(c.Status, ContractStatuses) {
		return Contract{}, invalid("status", "must be one of "+strings.Join(ContractStatuses, ", "))
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return Contract{}, invalid("start_date", "start and end dates are required")
	}
	if c.EndDate.Before(c.StartDate) {
		return Contract{}, invalid("end_date", "must be on or after start_date")
	}
	if c.Value.IsNegative() {
		return Contract{}, invalid("value", "must not be negative")
	}
	c.Value = c.Value.Round(2)
	return s.store.CreateContract(ctx, c)
}

func (s *Service) ListContracts(ctx context.Context, clientID string) ([]Contract, error) {
	return s.store.ListContracts(ctx, clientID)
}

func (s *Service) EndContract(ctx context.Context, clientID, contractID string) (Contract, error) {
	return s.store.EndContract(ctx, clientID, contractID, s.today())
}

// ContractTotal sums the value of active contracts.
func ContractTotal(contracts []Contract) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contracts {
		if c.Status == ContractActive {
			total = total.Add(c.Value)
		}
	}
	return total
}

func (s *Service) RecordActivity(ctx context.Context, in ActivityInput) (ActivityLog, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return ActivityLog{}, invalid("description", "is required")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		in.Latitude = nil
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		in.Longitude = nil
	}
	return s.store.CreateActivity(ctx, in)
}

func (s *Service) ListActivities(ctx context.Context, filter ActivityFilter) ([]ActivityLog, error) {
	return s.store.ListActivities(ctx, filter)
}

// PersonalDetail reports found=false when nothing was recorded yet.
func (s *Service) PersonalDetail(ctx context.Context, employeeID string) (PersonalDetail, bool, error) {
	d, err := s.store.GetPersonalDetail(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return PersonalDetail{EmployeeID: employeeID}, false, nil
	}
	if err != nil {
		return PersonalDetail{}, false, err
	}
	return d, true, nil
}

func (s *Service) SavePersonalDetail(ctx context.Context, d PersonalDetail) error {
	if _, err := s.store.GetEmployee(ctx, d.EmployeeID); err != nil {
		return err
	}
	d.NIK = strings.TrimSpace(d.NIK)
	if d.NIK != "" && !allDigits(d.NIK) {
		return invalid("nik", "must contain digits only")
	}
	for field, value := range map[string]*int{"height_cm": d.HeightCm, "weight_kg": d.WeightKg, "num_children": d.NumChildren, "num_siblings": d.NumSiblings} {
		if value != nil && *value < 0 {
			return invalid(field, "must not be negative")
		}
	}
	return s.store.SavePersonalDetail(ctx, d)
}

func (s *Service) AddDocument(ctx context.Context, employeeID, documentType, filePath string) (Document, error) {
	documentType = strings.ToLower(strings.TrimSpace(documentType))
	if !oneOf(documentType, DocumentTypes) {
		return Document{}, invalid("document_type", "must be one of "+strings.Join(DocumentTypes, ", "))
	}
	return s.store.AddDocument(ctx, employeeID, documentType, filePath)
}

func (s *Service) ListDocuments(ctx context.Context, employeeID string) ([]Document, error) {
	return s.store.ListDocuments(ctx, employeeID)
}

func (s *Service) DeleteDocument(ctx context.Context, employeeID, documentID string) (Document, error) {
	return s.store.DeleteDocument(ctx, employeeID, documentID)
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}

func allDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
