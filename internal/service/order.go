package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/stcker/backend/internal/client"
	"github.com/stcker/backend/internal/config"
	"github.com/stcker/backend/internal/db"
	"github.com/stcker/backend/internal/model"
	"github.com/stcker/backend/internal/template"
	"go.uber.org/zap"
)

// OrderService reads and administers orders. Orders are written once a
// payment capture succeeds; after that only the two statuses change.
type OrderService struct {
	orders   OrderStore
	users    UserStore
	products ProductStore
	mailer   client.Mailer
	mailCfg  config.MailConfig
	origin   string
	logger   *zap.Logger
}

func NewOrderService(orders OrderStore, users UserStore, products ProductStore, mailer client.Mailer, cfg config.Config, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:   orders,
		users:    users,
		products: products,
		mailer:   mailer,
		mailCfg:  cfg.Mail,
		origin:   strings.TrimRight(cfg.Client.CustomerOrigin, "/"),
		logger:   logger,
	}
}

func (s *OrderService) List(ctx context.Context, params model.ListParams) (*model.OrderPage, error) {
	orders, total, err := s.orders.ListOrders(ctx, params)
	if err != nil {
		return nil, err
	}
	return &model.OrderPage{Items: orders, Total: total}, nil
}

// ListForUser returns the caller's own orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

// Get answers ErrOrderNotFound when a customer asks for someone else's order.
func (s *OrderService) Get(ctx context.Context, caller *model.Identity, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, mapOrderErr(err)
	}
	if caller == nil || (caller.Role != model.RoleAdmin && order.UserID != caller.ID) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Update sets both statuses. A completed payment and a delivered order are
// final. The confirmation mail goes out when the payment first completes.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, input model.UpdateOrderInput) (*model.Order, error) {
	var completed bool
	order, err := s.orders.UpdateOrder(ctx, id, func(o *model.Order) error {
		if o.PaymentStatus == model.PaymentCompleted && input.PaymentStatus != model.PaymentCompleted {
			return ErrPaymentFinalised
		}
		if o.OrderStatus == model.OrderDelivered && input.OrderStatus != model.OrderDelivered {
			return ErrOrderDelivered
		}
		completed = input.PaymentStatus == model.PaymentCompleted && o.PaymentStatus != model.PaymentCompleted
		o.PaymentStatus = input.PaymentStatus
		o.OrderStatus = input.OrderStatus
		return nil
	})
	if err != nil {
		return nil, mapOrderErr(err)
	}

	if completed {
		s.sendConfirmation(ctx, order)
	}
	return order, nil
}

// Record turns the user's cart into an order after a payment capture and
// empties the cart. Mail failures are logged; the order is already stored.
func (s *OrderService) Record(ctx context.Context, userID uuid.UUID, capture model.OrderCapture) (*model.Order, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	if len(user.Carts) == 0 {
		return nil, ErrCartEmpty
	}

	products, err := s.products.GetProductsByIDs(ctx, uniqueIDs(user.Carts))
	if err != nil {
		return nil, err
	}
	items, gross := orderItems(user.Carts, products)
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	shipping := capture.ShippingDetails
	if shipping.Email == "" {
		shipping.Email = user.Email
	}
	status := model.OrderPending
	if capture.PaymentStatus == model.PaymentCompleted {
		status = model.OrderPlaced
	}

	order, err := s.orders.PlaceOrder(ctx, model.Order{
		ID:              uuid.New(),
		UserID:          user.ID,
		ProviderOrderID: capture.ProviderOrderID,
		CaptureID:       capture.CaptureID,
		Items:           items,
		ShippingDetails: shipping,
		GrossAmount:     gross,
		PaymentStatus:   capture.PaymentStatus,
		OrderStatus:     status,
	})
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == model.PaymentCompleted {
		s.sendConfirmation(ctx, order)
	}
	s.notifyAdmin(ctx, order)
	return order, nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, order *model.Order) {
	to := order.ShippingDetails.Email
	if to == "" {
		s.logger.Warn("order has no contact address, skipping confirmation",
			zap.String("order_id", order.ID.String()))
		return
	}

	items := make([]template.MailItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, template.MailItem{Name: item.Name, Quantity: item.Quantity, Price: formatAmount(item.Price)})
	}
	html, err := template.Render(template.OrderConfirmation, template.MailData{
		Firstname:   order.ShippingDetails.Fullname,
		Logo:        s.mailCfg.LogoURL,
		SupportLink: s.origin + "/support/",
		OrderID:     order.ID.String(),
		Total:       formatAmount(order.GrossAmount),
		Address:     shippingAddress(order.ShippingDetails),
		Items:       items,
	})
	if err == nil {
		err = s.mailer.Send(ctx, client.Mail{
			From:    s.mailCfg.SenderAddress,
			To:      to,
			Subject: "Stcker - Order Confirmation Details",
			HTML:    html,
		})
	}
	if err != nil {
		s.logger.Warn("failed to send order confirmation",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

func (s *OrderService) notifyAdmin(ctx context.Context, order *model.Order) {
	if s.mailCfg.AdminAddress == "" {
		s.logger.Warn("admin address not configured, skipping order notification",
			zap.String("order_id", order.ID.String()))
		return
	}
	err := s.mailer.Send(ctx, client.Mail{
		From:    s.mailCfg.SenderAddress,
		To:      s.mailCfg.AdminAddress,
		Subject: "Stcker - Order Notification",
		Text: fmt.Sprintf("A new order has been created\nOrder: %s\nPayment Status: %s\nOrder Status: %s",
			order.ID, order.PaymentStatus, order.OrderStatus),
	})
	if err != nil {
		s.logger.Warn("failed to notify admin of order",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

// orderItems groups cart entries by product, keeping first-seen order.
// Products that no longer exist are left out.
func orderItems(cart []uuid.UUID, products []model.Product) ([]model.OrderItem, float64) {
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	index := map[uuid.UUID]int{}
	items := []model.OrderItem{}
	var gross float64
	for _, id := range cart {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if i, seen := index[id]; seen {
			items[i].Quantity++
		} else {
			index[id] = len(items)
			items = append(items, model.OrderItem{ProductID: p.ID, Name: p.Name, Quantity: 1, Price: p.Price})
		}
		gross += p.Price
	}
	return items, math.Round(gross*100) / 100
}

func shippingAddress(d model.ShippingDetails) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{d.Address, d.City, d.State, d.PostalCode, d.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func formatAmount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func mapOrderErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}
