package core

import (
	"context"
	"time"
)

type StoreAPI interface {
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error)
	ListEmployees(ctx context.Context, status string) ([]Employee, error)
	CreateEmployee(ctx context.Context, in EmployeeInput, account *NewAccount, assignment *AssignmentInput) (Employee, error)
	UpdateEmployee(ctx context.Context, employeeID string, in EmployeeInput) (Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string) (Employee, error)
	Counts(ctx context.Context) (Counts, error)

	GetClient(ctx context.Context, clientID string) (Client, error)
	GetClientByUserID(ctx context.Context, userID string) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	CreateClient(ctx context.Context, in ClientInput, account *NewAccount) (Client, error)
	DeleteClient(ctx context.Context, clientID string) (Client, error)

	CreateContract(ctx context.Context, c Contract) (Contract, error)
	ListContracts(ctx context.Context, clientID string) ([]Contract, error)
	EndContract(ctx context.Context, clientID, contractID string, endDate time.Time) (Contract, error)

	AddAssignment(ctx context.Context, employeeID string, in AssignmentInput) (Assignment, error)
	Reassign(ctx context.Context, employeeID string, in AssignmentInput) (Assignment, error)
	EndAssignment(ctx context.Context, employeeID string, endDate time.Time) (bool, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error)

	CreateActivity(ctx context.Context, in ActivityInput) (ActivityLog, error)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]ActivityLog, error)

	GetPersonalDetail(ctx context.Context, employeeID string) (PersonalDetail, error)
	SavePersonalDetail(ctx context.Context, d PersonalDetail) error

	AddDocument(ctx context.Context, employeeID, documentType, filePath string) (Document, error)
	ListDocuments(ctx context.Context, employeeID string) ([]Document, error)
	DeleteDocument(ctx context.Context, employeeID, documentID string) (Document, error)
}

var _ StoreAPI = (*Store)(nil)
