package account

import (
	"context"
	"errors"
	"sync"
	"testing"

	"furniture-store/core/apperror"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newRegistry(t *testing.T, admins ...string) (*Registry, *auth.Issuer) {
	t.Helper()
	cfg := auth.Config{Secret: "test", Admins: admins, BcryptCost: bcrypt.MinCost}
	issuer := auth.NewIssuer(cfg)
	return NewRegistry(cfg, issuer, zap.NewNop()), issuer
}

func bob() Registration {
	return Registration{Name: "Bob", Email: " Bob@Store.test ", Password: "s3cret!pass", Address: "1 Main St"}
}

func TestRegister(t *testing.T) {
	r, _ := newRegistry(t)

	p, err := r.Register(bob())
	require.NoError(t, err)
	assert.Equal(t, "bob@store.test", p.Email)
	assert.Equal(t, DefaultPaymentMethod, p.PaymentMethod)
	assert.Equal(t, auth.RoleClient, p.Role)
	assert.Empty(t, p.Wishlist)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _ := newRegistry(t)
	_, err := r.Register(bob())
	require.NoError(t, err)

	dup := bob()
	dup.Email = "BOB@store.test"
	_, err = r.Register(dup)
	assert.True(t, errors.Is(err, apperror.ErrDuplicateEmail))
	assert.Len(t, r.List(), 1)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Registration)
	}{
		{"missing name", func(r *Registration) { r.Name = "" }},
		{"missing address", func(r *Registration) { r.Address = "" }},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }},
		{"short password", func(r *Registration) { r.Password = "a!b" }},
		{"no special character", func(r *Registration) { r.Password = "password123" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRegistry(t)
			reg := bob()
			tt.mutate(&reg)
			_, err := r.Register(reg)
			assert.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)
		})
	}
}

func TestRegister_AdminFromConfig(t *testing.T) {
	r, _ := newRegistry(t, "BOB@store.test")
	p, err := r.Register(bob())
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, p.Role)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	r, _ := newRegistry(t)
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Register(bob()); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
}

func TestLogin(t *testing.T) {
	r, issuer := newRegistry(t)
	_, err := r.Register(bob())
	require.NoError(t, err)

	s, err := r.Login("bob@store.test", "s3cret!pass")
	require.NoError(t, err)
	claims, err := issuer.Verify(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob@store.test", claims.Email)
	assert.Equal(t, auth.RoleClient, claims.Role)

	_, wrongPassword := r.Login("bob@store.test", "wrong!pass")
	_, unknownEmail := r.Login("ann@store.test", "s3cret!pass")
	assert.True(t, errors.Is(wrongPassword, apperror.ErrAuthentication))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestWishlist(t *testing.T) {
	r, _ := newRegistry(t)
	_, err := r.Register(bob())
	require.NoError(t, err)

	_, err = r.AddToWishlist("bob@store.test", "Chair/Oak Chair")
	require.NoError(t, err)
	_, err = r.AddToWishlist("bob@store.test", "Sofa/Corner Sofa")
	require.NoError(t, err)
	keys, err := r.AddToWishlist("bob@store.test", "Chair/Oak Chair")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chair/Oak Chair", "Sofa/Corner Sofa"}, keys)

	_, err = r.AddToWishlist("bob@store.test", "Lamp/Desk")
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	keys, err = r.RemoveFromWishlist("bob@store.test", "Chair/Oak Chair")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofa/Corner Sofa"}, keys)

	_, err = r.RemoveFromWishlist("bob@store.test", "Chair/Oak Chair")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestOrderHistoryAndNotifications(t *testing.T) {
	r, _ := newRegistry(t)
	_, err := r.Register(bob())
	require.NoError(t, err)

	book := order.NewBook()
	book.Subscribe(r.OrderObserver())
	first := order.New(order.Details{Owner: "bob@store.test"}, nil, decimal.NewFromInt(10))
	second := order.New(order.Details{Owner: "bob@store.test"}, nil, decimal.NewFromInt(20))
	for _, o := range []*order.Order{first, second} {
		book.Place(o)
		require.NoError(t, r.RecordOrder(o))
	}
	_, err = book.Complete(first.ID())
	require.NoError(t, err)

	history, err := r.OrderHistory("bob@store.test")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID(), history[0].ID())
	assert.Equal(t, second.ID(), history[1].ID())

	notes, err := r.Notifications("bob@store.test")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, first.ID(), notes[0].OrderID)
	assert.Equal(t, order.StatusCompleted, notes[0].Status)

	stranger := order.New(order.Details{Owner: "ann@store.test"}, nil, decimal.Zero)
	assert.True(t, errors.Is(r.RecordOrder(stranger), apperror.ErrNotFound))
}

func TestUpdateProfileSetRoleDelete(t *testing.T) {
	r, _ := newRegistry(t)
	_, err := r.Register(bob())
	require.NoError(t, err)

	p, err := r.UpdateProfile("bob@store.test", ProfileUpdate{Address: "2 Side St"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.Name)
	assert.Equal(t, "2 Side St", p.Address)

	_, err = r.SetRole("bob@store.test", "root")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	p, err = r.SetRole("bob@store.test", auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, p.Role)

	require.NoError(t, r.Delete("bob@store.test"))
	_, err = r.Get("bob@store.test")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(r.Delete("bob@store.test"), apperror.ErrNotFound))
}

type recordingPersister struct {
	mu      sync.Mutex
	saved   map[string]User
	deleted []string
}

func (p *recordingPersister) Save(_ context.Context, u User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved[u.Email] = u
	return nil
}

func (p *recordingPersister) Delete(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.saved, email)
	p.deleted = append(p.deleted, email)
	return nil
}

func TestPersister_MirrorsChanges(t *testing.T) {
	r, _ := newRegistry(t)
	p := &recordingPersister{saved: map[string]User{}}
	r.UsePersister(p)

	_, err := r.Register(bob())
	require.NoError(t, err)
	_, err = r.AddToWishlist("bob@store.test", "Chair/Oak Chair")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chair/Oak Chair"}, p.saved["bob@store.test"].Wishlist)

	require.NoError(t, r.Delete("bob@store.test"))
	assert.Empty(t, p.saved)
	assert.Equal(t, []string{"bob@store.test"}, p.deleted)
}
