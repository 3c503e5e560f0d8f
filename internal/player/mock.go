package player

import "sync"

// Mock is a mock implementation of the PlayerStore interface for testing.
type Mock struct {
	mu sync.Mutex

	RegisterFunc             func(email, name, password, ladderID string) (*User, string, error)
	VerifyFunc               func(token string) (*User, error)
	GetByIDFunc              func(id string) (*User, error)
	GetByEmailFunc           func(email string) (*User, error)
	RequestPasswordResetFunc func(email string) (*User, string, error)
	ResetPasswordFunc        func(email, otp, newPassword string) error
	UpdateProfileFunc        func(id string, upd ProfileUpdate) (*User, error)
	LinkPartnerFunc          func(userID, partnerEmail string) (*User, error)
	UnlinkPartnerFunc        func(userID string) error
	DeleteFunc               func(userID string) error
	ListByLadderFunc         func(ladderID string) ([]User, error)

	DeleteCalls []string
}

var _ PlayerStore = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Register(email, name, password, ladderID string) (*User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(email, name, password, ladderID)
	}
	return &User{ID: "mock-user", Email: email, Name: name, LadderID: ladderID}, "mock-token", nil
}

func (m *Mock) Verify(token string) (*User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return &User{ID: "mock-user", Verified: true}, nil
}

func (m *Mock) GetByID(id string) (*User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return &User{ID: id}, nil
}

func (m *Mock) GetByEmail(email string) (*User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(email)
	}
	return &User{ID: "mock-user", Email: email}, nil
}

func (m *Mock) RequestPasswordReset(email string) (*User, string, error) {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(email)
	}
	return &User{ID: "mock-user", Email: email}, "000000", nil
}

func (m *Mock) ResetPassword(email, otp, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(email, otp, newPassword)
	}
	return nil
}

func (m *Mock) UpdateProfile(id string, upd ProfileUpdate) (*User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(id, upd)
	}
	return &User{ID: id}, nil
}

func (m *Mock) LinkPartner(userID, partnerEmail string) (*User, error) {
	if m.LinkPartnerFunc != nil {
		return m.LinkPartnerFunc(userID, partnerEmail)
	}
	return &User{ID: "mock-partner", Email: partnerEmail}, nil
}

func (m *Mock) UnlinkPartner(userID string) error {
	if m.UnlinkPartnerFunc != nil {
		return m.UnlinkPartnerFunc(userID)
	}
	return nil
}

func (m *Mock) Delete(userID string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, userID)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(userID)
	}
	return nil
}

func (m *Mock) ListByLadder(ladderID string) ([]User, error) {
	if m.ListByLadderFunc != nil {
		return m.ListByLadderFunc(ladderID)
	}
	return nil, nil
}
