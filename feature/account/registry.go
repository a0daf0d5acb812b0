package account

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"furniture-store/core/apperror"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/catalog"
	"furniture-store/feature/order"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Persister stores user records. *Store implements it.
type Persister interface {
	Save(ctx context.Context, u User) error
	Delete(ctx context.Context, email string) error
}

// Registration is the input of Register.
type Registration struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

// ProfileUpdate changes the non-empty fields of a profile.
type ProfileUpdate struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

// Session is the result of a successful login.
type Session struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// Registry is the set of registered users keyed by normalised email.
type Registry struct {
	mu        sync.RWMutex
	users     map[string]*User
	admins    map[string]bool
	issuer    *auth.Issuer
	cost      int
	dummyHash []byte
	persister Persister
	saveMu    sync.Mutex
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistry creates an empty registry. Emails listed in cfg.Admins register as admins.
func NewRegistry(cfg auth.Config, issuer *auth.Issuer, logger *zap.Logger) *Registry {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	admins := make(map[string]bool, len(cfg.Admins))
	for _, a := range cfg.Admins {
		if a = NormalizeEmail(a); a != "" {
			admins[a] = true
		}
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password!"), cost)
	if err != nil {
		logger.Fatal("Failed to prepare dummy password hash", zap.Error(err))
	}
	return &Registry{
		users:     make(map[string]*User),
		admins:    admins,
		issuer:    issuer,
		cost:      cost,
		dummyHash: dummy,
		logger:    logger,
		now:       time.Now,
	}
}

// UsePersister mirrors every later change to p.
func (r *Registry) UsePersister(p Persister) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persister = p
}

// Load adds persisted users without writing them back.
func (r *Registry) Load(users []User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range users {
		u := users[i].clone()
		r.users[u.Email] = &u
	}
}

// AttachHistory rebuilds order histories from persisted orders, oldest first.
func (r *Registry) AttachHistory(orders []*order.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		if u, ok := r.users[o.Owner()]; ok {
			u.Orders = append(u.Orders, o)
		}
	}
}

// Register creates a new user.
func (r *Registry) Register(reg Registration) (Profile, error) {
	email := NormalizeEmail(reg.Email)
	if reg.Name == "" || email == "" || reg.Address == "" {
		return Profile{}, apperror.Validation("name, email and address are required")
	}
	if err := validateEmail(email); err != nil {
		return Profile{}, err
	}
	if err := ValidatePassword(reg.Password); err != nil {
		return Profile{}, err
	}

	r.mu.RLock()
	_, taken := r.users[email]
	r.mu.RUnlock()
	if taken {
		return Profile{}, apperror.DuplicateEmail(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), r.cost)
	if err != nil {
		return Profile{}, err
	}

	u := &User{
		Email:         email,
		Name:          reg.Name,
		Address:       reg.Address,
		PaymentMethod: reg.PaymentMethod,
		Role:          auth.RoleClient,
		PasswordHash:  hash,
		CreatedAt:     r.now().UTC(),
	}
	if u.PaymentMethod == "" {
		u.PaymentMethod = DefaultPaymentMethod
	}
	if r.admins[email] {
		u.Role = auth.RoleAdmin
	}

	r.mu.Lock()
	if _, taken := r.users[email]; taken {
		r.mu.Unlock()
		return Profile{}, apperror.DuplicateEmail(email)
	}
	r.users[email] = u
	p := u.profile()
	r.mu.Unlock()

	r.save(email)
	r.logger.Info("User registered", zap.String("email", email), zap.String("role", p.Role))
	return p, nil
}

// Login checks the credentials and issues a bearer token. Unknown emails and wrong
// passwords fail identically.
func (r *Registry) Login(email, password string) (Session, error) {
	email = NormalizeEmail(email)

	r.mu.RLock()
	u, ok := r.users[email]
	var snapshot User
	if ok {
		snapshot = u.clone()
	}
	r.mu.RUnlock()

	if !ok {
		_ = bcrypt.CompareHashAndPassword(r.dummyHash, []byte(password))
		return Session{}, apperror.Authentication()
	}
	if err := bcrypt.CompareHashAndPassword(snapshot.PasswordHash, []byte(password)); err != nil {
		return Session{}, apperror.Authentication()
	}

	token, err := r.issuer.Issue(snapshot.Email, snapshot.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Profile: snapshot.profile()}, nil
}

// Get returns the profile of email.
func (r *Registry) Get(email string) (Profile, error) {
	var p Profile
	err := r.view(email, func(u *User) { p = u.profile() })
	return p, err
}

// Role returns the current role of email. It satisfies auth.RoleLookup.
func (r *Registry) Role(email string) (string, bool) {
	var role string
	err := r.view(email, func(u *User) { role = u.Role })
	return role, err == nil
}

// List returns every profile ordered by email.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.profile())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// UpdateProfile changes the non-empty fields of upd.
func (r *Registry) UpdateProfile(email string, upd ProfileUpdate) (Profile, error) {
	return r.update(email, func(u *User) error {
		if upd.Name != "" {
			u.Name = upd.Name
		}
		if upd.Address != "" {
			u.Address = upd.Address
		}
		if upd.PaymentMethod != "" {
			u.PaymentMethod = upd.PaymentMethod
		}
		return nil
	})
}

// SetRole changes the role of email.
func (r *Registry) SetRole(email, role string) (Profile, error) {
	if !validRole(role) {
		return Profile{}, apperror.Validation("unknown role %q", role)
	}
	return r.update(email, func(u *User) error {
		u.Role = role
		return nil
	})
}

// Delete removes email from the registry.
func (r *Registry) Delete(email string) error {
	email = NormalizeEmail(email)
	r.mu.Lock()
	if _, ok := r.users[email]; !ok {
		r.mu.Unlock()
		return apperror.NotFound("user %s not found", email)
	}
	delete(r.users, email)
	r.mu.Unlock()

	r.save(email)
	return nil
}

// Wishlist returns the item keys on the wishlist of email in insertion order.
func (r *Registry) Wishlist(email string) ([]string, error) {
	var keys []string
	err := r.view(email, func(u *User) { keys = append([]string{}, u.Wishlist...) })
	return keys, err
}

// AddToWishlist appends key; adding a key twice keeps one entry.
func (r *Registry) AddToWishlist(email, key string) ([]string, error) {
	if _, _, err := catalog.ParseItemKey(key); err != nil {
		return nil, err
	}
	p, err := r.update(email, func(u *User) error {
		if !slices.Contains(u.Wishlist, key) {
			u.Wishlist = append(u.Wishlist, key)
		}
		return nil
	})
	return p.Wishlist, err
}

// RemoveFromWishlist removes key.
func (r *Registry) RemoveFromWishlist(email, key string) ([]string, error) {
	p, err := r.update(email, func(u *User) error {
		i := slices.Index(u.Wishlist, key)
		if i < 0 {
			return apperror.NotFound("%s is not on the wishlist", key)
		}
		u.Wishlist = slices.Delete(u.Wishlist, i, i+1)
		return nil
	})
	return p.Wishlist, err
}

// RecordOrder appends o to its owner's history.
func (r *Registry) RecordOrder(o *order.Order) error {
	email := o.Owner()
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return apperror.NotFound("user %s not found", email)
	}
	u.Orders = append(u.Orders, o)
	return nil
}

// OrderHistory returns the orders of email, oldest first.
func (r *Registry) OrderHistory(email string) ([]*order.Order, error) {
	var orders []*order.Order
	err := r.view(email, func(u *User) { orders = append([]*order.Order{}, u.Orders...) })
	return orders, err
}

// Notifications returns the order notifications received by email.
func (r *Registry) Notifications(email string) ([]Notification, error) {
	var out []Notification
	err := r.view(email, func(u *User) { out = append([]Notification{}, u.Notifications...) })
	return out, err
}

// OrderObserver records a notification on the owner of every order status change.
func (r *Registry) OrderObserver() order.Observer {
	return func(ev order.Event) error {
		if ev.Previous == "" {
			return nil
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		u, ok := r.users[ev.Order.Owner()]
		if !ok {
			return nil
		}
		u.Notifications = append(u.Notifications, Notification{
			OrderID: ev.Order.ID(),
			Status:  ev.Status,
			At:      r.now().UTC(),
		})
		return nil
	}
}

func (r *Registry) view(email string, fn func(*User)) error {
	email = NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return apperror.NotFound("user %s not found", email)
	}
	fn(u)
	return nil
}

func (r *Registry) update(email string, fn func(*User) error) (Profile, error) {
	email = NormalizeEmail(email)
	r.mu.Lock()
	u, ok := r.users[email]
	if !ok {
		r.mu.Unlock()
		return Profile{}, apperror.NotFound("user %s not found", email)
	}
	if err := fn(u); err != nil {
		r.mu.Unlock()
		return Profile{}, err
	}
	p := u.profile()
	r.mu.Unlock()

	r.save(email)
	return p, nil
}

// save writes the current state of email, or deletes it when the user is gone.
// Writes are serialised so a slower write never overwrites a newer one.
func (r *Registry) save(email string) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.RLock()
	p := r.persister
	u, exists := r.users[email]
	var snapshot User
	if exists {
		snapshot = u.clone()
	}
	r.mu.RUnlock()
	if p == nil {
		return
	}

	var err error
	if exists {
		err = p.Save(context.Background(), snapshot)
	} else {
		err = p.Delete(context.Background(), email)
	}
	if err != nil {
		r.logger.Error("Failed to persist user", zap.String("email", email), zap.Error(err))
	}
}
