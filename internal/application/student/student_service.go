package student

import (
	"context"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/canteen/backend/internal/domain/student"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// StudentService handles student enrollment and wallet operations
type StudentService struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo student.Repository, eventPublisher shared.EventPublisher) *StudentService {
	return &StudentService{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Create enrolls a new student in the active store
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*StudentResponse, error) {
	storeID, err := storescope.ActiveStoreID(ctx)
	if err != nil {
		return nil, err
	}

	exists, err := s.studentRepo.ExistsByNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Student with this number already exists")
	}

	st, err := student.NewStudent(storeID, req.Number, req.Name, req.Class)
	if err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)

	return ToStudentResponse(st), nil
}

// Update updates a student's basic information
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, req UpdateStudentRequest) (*StudentResponse, error) {
	st, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := st.Name
	if req.Name != nil {
		name = *req.Name
	}
	class := st.Class
	if req.Class != nil {
		class = *req.Class
	}
	if err := st.Update(name, class); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)

	return ToStudentResponse(st), nil
}

// GetByID retrieves a student by ID
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*StudentResponse, error) {
	st, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStudentResponse(st), nil
}

// GetByNumber retrieves a student by student number, as scanned or keyed
// in at the counter
func (s *StudentService) GetByNumber(ctx context.Context, number string) (*StudentResponse, error) {
	st, err := s.studentRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return ToStudentResponse(st), nil
}

// List retrieves students matching the query, paginated
func (s *StudentService) List(ctx context.Context, query ListStudentsQuery) (*shared.Paginated[StudentResponse], error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if query.Class != "" {
		filter.Filters["class"] = query.Class
	}
	if query.Status != "" {
		filter.Filters["active"] = query.Status == "active"
	}

	students, err := s.studentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.studentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]StudentResponse, 0, len(students))
	for i := range students {
		items = append(items, *ToStudentResponse(&students[i]))
	}

	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// Deposit adds funds to a student's wallet
func (s *StudentService) Deposit(ctx context.Context, id uuid.UUID, req WalletOperationRequest) (*StudentResponse, error) {
	st, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := st.Deposit(valueobject.NewMoneyCNY(req.Amount)); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)

	return ToStudentResponse(st), nil
}

// Withdraw removes funds from a student's wallet, refunding the guardian
func (s *StudentService) Withdraw(ctx context.Context, id uuid.UUID, req WalletOperationRequest) (*StudentResponse, error) {
	st, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := st.Withdraw(valueobject.NewMoneyCNY(req.Amount)); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)

	return ToStudentResponse(st), nil
}

// Deactivate disables a student account, keeping the wallet balance
func (s *StudentService) Deactivate(ctx context.Context, id uuid.UUID) (*StudentResponse, error) {
	st, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	st.Deactivate()

	if err := s.studentRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)

	return ToStudentResponse(st), nil
}

func (s *StudentService) publishDomainEvents(ctx context.Context, st *student.Student) {
	if s.eventPublisher == nil {
		return
	}
	events := st.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	st.ClearDomainEvents()
}
