package order

import (
	"context"

	"furniture-store/core/apperror"

	"go.uber.org/zap"
)

// Service exposes the order book to the admin HTTP layer.
type Service struct {
	book     *Book
	exporter *Exporter
	logger   *zap.Logger
}

// NewService creates a new order service. exporter may be nil when storage is unavailable.
func NewService(book *Book, exporter *Exporter, logger *zap.Logger) *Service {
	return &Service{book: book, exporter: exporter, logger: logger}
}

// List returns the orders matching status and owner (empty matches all), oldest first.
func (s *Service) List(status, owner string) []View {
	orders := s.book.All()
	if owner != "" {
		orders = s.book.ByOwner(owner)
	}
	views := []View{}
	for _, o := range orders {
		if status != "" && string(o.Status()) != status {
			continue
		}
		views = append(views, o.View())
	}
	return views
}

// Get returns one order.
func (s *Service) Get(id string) (View, error) {
	o, err := s.book.Get(id)
	if err != nil {
		return View{}, err
	}
	return o.View(), nil
}

// Complete marks an order completed.
func (s *Service) Complete(id string) (View, error) {
	o, err := s.book.Complete(id)
	if err != nil {
		return View{}, err
	}
	s.logger.Info("Order completed", zap.String("order_id", id))
	return o.View(), nil
}

// Cancel cancels an order; its goods go back to stock through the restock observer.
func (s *Service) Cancel(id string) (View, error) {
	o, err := s.book.Cancel(id)
	if err != nil {
		return View{}, err
	}
	s.logger.Info("Order cancelled", zap.String("order_id", id))
	return o.View(), nil
}

// Export uploads every order as CSV and returns the object name.
func (s *Service) Export(ctx context.Context) (string, error) {
	if s.exporter == nil {
		return "", apperror.Validation("order export requires object storage")
	}
	return s.exporter.Export(ctx, s.book.All())
}
