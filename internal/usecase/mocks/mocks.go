package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc            func(ctx context.Context, user *domain.User) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*domain.User, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error)
	ApplyBalanceDeltaFunc func(ctx context.Context, tx usecase.Transaction, id string, delta domain.BalanceDelta, updatedAt time.Time) error
	UpdateProfileFunc     func(ctx context.Context, user *domain.User) error
	UpdatePasswordFunc    func(ctx context.Context, id, hashedPassword string, updatedAt time.Time) error
	DeleteFunc            func(ctx context.Context, id string) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockUserRepository) ApplyBalanceDelta(ctx context.Context, tx usecase.Transaction, id string, delta domain.BalanceDelta, updatedAt time.Time) error {
	if m.ApplyBalanceDeltaFunc != nil {
		return m.ApplyBalanceDeltaFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ActiveCapital = u.ActiveCapital.Add(delta.ActiveCapital)
	u.ReturnOnInvestment = u.ReturnOnInvestment.Add(delta.ReturnOnInvestment)
	u.DormantFunds = u.DormantFunds.Add(delta.DormantFunds)
	if delta.ActivateTrading {
		u.TradingStatus = domain.TradingActive
	}
	u.UpdatedAt = updatedAt
	return nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	existing.Name = user.Name
	existing.PhoneNumber = user.PhoneNumber
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string, updatedAt time.Time) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hashedPassword, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.HashedPassword = hashedPassword
	u.UpdatedAt = updatedAt
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}

// MockPlanRepository is a mock implementation of PlanRepository.
type MockPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*domain.InvestmentPlan

	CreateFunc    func(ctx context.Context, plan *domain.InvestmentPlan) error
	GetByIDFunc   func(ctx context.Context, id string) (*domain.InvestmentPlan, error)
	GetByNameFunc func(ctx context.Context, name string) (*domain.InvestmentPlan, error)
	UpdateFunc    func(ctx context.Context, plan *domain.InvestmentPlan) error
	DeleteFunc    func(ctx context.Context, id string) error
	ListFunc      func(ctx context.Context, limit, offset int) ([]*domain.InvestmentPlan, error)
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{
		plans: make(map[string]*domain.InvestmentPlan),
	}
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.InvestmentPlan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, plan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
	return nil
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id string) (*domain.InvestmentPlan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.plans[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrPlanNotFound
}

func (m *MockPlanRepository) GetByName(ctx context.Context, name string) (*domain.InvestmentPlan, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plans {
		if p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *domain.InvestmentPlan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, plan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[plan.ID]; !ok {
		return domain.ErrPlanNotFound
	}
	m.plans[plan.ID] = plan
	return nil
}

func (m *MockPlanRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return domain.ErrPlanNotFound
	}
	delete(m.plans, id)
	return nil
}

func (m *MockPlanRepository) List(ctx context.Context, limit, offset int) ([]*domain.InvestmentPlan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var plans []*domain.InvestmentPlan
	for _, p := range m.plans {
		copied := *p
		plans = append(plans, &copied)
	}
	return plans, nil
}

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	CreateFunc              func(ctx context.Context, wallet *domain.Wallet) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Wallet, error)
	GetUserWalletByNameFunc func(ctx context.Context, userID, name string) (*domain.Wallet, error)
	GetSystemWalletFunc     func(ctx context.Context, cryptoType domain.CryptoType) (*domain.Wallet, error)
	ListByUserFunc          func(ctx context.Context, userID string) ([]*domain.Wallet, error)
	ListSystemFunc          func(ctx context.Context) ([]*domain.Wallet, error)
	UpdateFunc              func(ctx context.Context, wallet *domain.Wallet) error
	DeleteFunc              func(ctx context.Context, id string) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetUserWalletByName(ctx context.Context, userID, name string) (*domain.Wallet, error) {
	if m.GetUserWalletByNameFunc != nil {
		return m.GetUserWalletByNameFunc(ctx, userID, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.OwnedBy(userID) && w.Name == name {
			copied := *w
			return &copied, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetSystemWallet(ctx context.Context, cryptoType domain.CryptoType) (*domain.Wallet, error) {
	if m.GetSystemWalletFunc != nil {
		return m.GetSystemWalletFunc(ctx, cryptoType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.IsSystem() && w.CryptoType == cryptoType {
			copied := *w
			return &copied, nil
		}
	}
	return nil, domain.ErrNoSystemWallet
}

func (m *MockWalletRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, w := range m.wallets {
		if w.OwnedBy(userID) {
			copied := *w
			wallets = append(wallets, &copied)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) ListSystem(ctx context.Context) ([]*domain.Wallet, error) {
	if m.ListSystemFunc != nil {
		return m.ListSystemFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, w := range m.wallets {
		if w.IsSystem() {
			copied := *w
			wallets = append(wallets, &copied)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[wallet.ID]; !ok {
		return domain.ErrWalletNotFound
	}
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(m.wallets, id)
	return nil
}

// MockTransactionRepository is a mock implementation of
// TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc              func(ctx context.Context, txn *domain.Transaction) error
	CreateTxFunc            func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Transaction, error)
	CompareAndSetStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, from, to domain.TransactionStatus, updatedAt time.Time) (bool, error)
	ListByUserFunc          func(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	ApprovedVolumeFunc      func(ctx context.Context, txType domain.TransactionType) (domain.Volume, error)
	RecomputeBalanceFunc    func(ctx context.Context, userID string) (domain.BalanceDelta, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *txn
	m.txns[txn.ID] = &copied
	return nil
}

func (m *MockTransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, txn)
	}
	return m.Create(ctx, txn)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.txns[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) CompareAndSetStatus(ctx context.Context, tx usecase.Transaction, id string, from, to domain.TransactionStatus, updatedAt time.Time) (bool, error) {
	if m.CompareAndSetStatusFunc != nil {
		return m.CompareAndSetStatusFunc(ctx, tx, id, from, to, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	t.UpdatedAt = updatedAt
	return true, nil
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, t := range m.txns {
		if t.UserID == userID {
			copied := *t
			txns = append(txns, &copied)
		}
	}
	return txns, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, t := range m.txns {
		copied := *t
		txns = append(txns, &copied)
	}
	return txns, nil
}

func (m *MockTransactionRepository) ApprovedVolume(ctx context.Context, txType domain.TransactionType) (domain.Volume, error) {
	if m.ApprovedVolumeFunc != nil {
		return m.ApprovedVolumeFunc(ctx, txType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var volume domain.Volume
	for _, t := range m.txns {
		if t.Type == txType && t.Status == domain.StatusApproved {
			volume.Count++
			volume.Total = volume.Total.Add(t.Amount)
		}
	}
	return volume, nil
}

func (m *MockTransactionRepository) RecomputeBalance(ctx context.Context, userID string) (domain.BalanceDelta, error) {
	if m.RecomputeBalanceFunc != nil {
		return m.RecomputeBalanceFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total domain.BalanceDelta
	for _, t := range m.txns {
		if t.UserID != userID || t.Status != domain.StatusApproved {
			continue
		}
		delta := t.ApprovalDelta()
		total.ActiveCapital = total.ActiveCapital.Add(delta.ActiveCapital)
		total.ReturnOnInvestment = total.ReturnOnInvestment.Add(delta.ReturnOnInvestment)
		total.DormantFunds = total.DormantFunds.Add(delta.DormantFunds)
	}
	return total, nil
}

// MockNotificationRepository is a mock implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	CreateFunc      func(ctx context.Context, notification *domain.Notification) error
	ListByUserFunc  func(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error)
	ListFunc        func(ctx context.Context, limit, offset int) ([]*domain.Notification, error)
	CountUnreadFunc func(ctx context.Context) (int64, error)
	MarkAllReadFunc func(ctx context.Context) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, notification)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *notification
	m.notifications = append(m.notifications, &copied)
	return nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == nil || *n.UserID == userID {
			copied := *n
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Notification, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		copied := *n
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	if m.CountUnreadFunc != nil {
		return m.CountUnreadFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, n := range m.notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context) error {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		n.Read = true
	}
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc          func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc        func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	GetByResourceIDFunc func(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	if m.GetByResourceIDFunc != nil {
		return m.GetByResourceIDFunc(ctx, resourceType, resourceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a mock implementation of Retrier. It runs the
// operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, op func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, op func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, op)
	}
	return op()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}
