package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodfeast/order/internal/service/models/order"
	"github.com/foodfeast/order/internal/service/models/orderitem"
	"github.com/foodfeast/order/internal/service/services/ordersvc"
)

type stubService struct {
	createdOrder   order.Order
	createErr      error
	lastCreated    order.Order
	statusErr      error
	lastStatus     string
	lastOrderID    int64
	acceptErr      error
	pickUpErr      error
	deliveredErr   error
	ordersByUser   []order.Order
	ordersByRest   []order.Order
	items          []orderitem.OrderItem
	unaccepted     []order.Details
	accepted       bool
	acceptedErr    error
	queriesErr     error
	lastCustomerID int64
}

func (s *stubService) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.lastCreated = o

	return s.createdOrder, s.createErr
}

func (s *stubService) ChangeOrderStatus(_ context.Context, orderID int64, rawStatus string) error {
	s.lastOrderID = orderID
	s.lastStatus = rawStatus

	return s.statusErr
}

func (s *stubService) AcceptOrder(_ context.Context, orderID int64) error {
	s.lastOrderID = orderID

	return s.acceptErr
}

func (s *stubService) MarkPickedUp(_ context.Context, orderID int64) error {
	s.lastOrderID = orderID

	return s.pickUpErr
}

func (s *stubService) MarkDelivered(_ context.Context, orderID int64) error {
	s.lastOrderID = orderID

	return s.deliveredErr
}

func (s *stubService) GetOrdersByCustomerID(_ context.Context, customerID int64) ([]order.Order, error) {
	s.lastCustomerID = customerID

	return s.ordersByUser, s.queriesErr
}

func (s *stubService) GetOrdersByRestaurantID(_ context.Context, _ int64) ([]order.Order, error) {
	return s.ordersByRest, s.queriesErr
}

func (s *stubService) GetOrderItemsByOrderID(_ context.Context, _ int64) ([]orderitem.OrderItem, error) {
	return s.items, s.queriesErr
}

func (s *stubService) GetUnacceptedOrders(context.Context) ([]order.Details, error) {
	return s.unaccepted, s.queriesErr
}

func (s *stubService) CheckOrderAccepted(_ context.Context, orderID int64) (bool, error) {
	s.lastOrderID = orderID

	return s.accepted, s.acceptedErr
}

func newTestTransport(svc *stubService) *HTTPTransport {
	transport := NewHTTPTransport(svc)
	transport.RegisterRoutes()

	return transport
}

func doRequest(t *testing.T, transport *HTTPTransport, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, req)

	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	svc := &stubService{
		createdOrder: order.Order{
			ID:           101,
			CustomerID:   3,
			RestaurantID: 7,
			Status:       order.StatusPlaced,
			Total:        25.50,
		},
	}
	transport := newTestTransport(svc)

	body := `{
		"customerId": 3,
		"restaurantId": 7,
		"orderDate": "2024-05-01 18:30:00",
		"orderTotal": 25.50,
		"deliveryAddress": "1 Main St",
		"paymentMethod": "card",
		"cartItems": [
			{"itemId": 3, "itemQuantity": 2, "price": 10.00, "specialRequests": "no onions"}
		]
	}`
	rec := doRequest(t, transport, http.MethodPost, "/orders/", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, order.StatusPlaced, resp.Status)

	require.Len(t, svc.lastCreated.OrderItems, 1)
	assert.Equal(t, int64(3), svc.lastCreated.OrderItems[0].MenuItemID)
	assert.Equal(t, 2, svc.lastCreated.OrderItems[0].Quantity)
	assert.Equal(t, "no onions", svc.lastCreated.OrderItems[0].SpecialRequests)
	assert.Equal(t, 2024, svc.lastCreated.OrderDate.Year())
}

func TestCreateOrderEndpoint_BadBody(t *testing.T) {
	transport := newTestTransport(&stubService{})

	rec := doRequest(t, transport, http.MethodPost, "/orders/", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeStatusEndpoint(t *testing.T) {
	svc := &stubService{}
	transport := newTestTransport(svc)

	rec := doRequest(t, transport, http.MethodPost, "/orders/status", `{"orderId": 9, "orderStatus": "In Progress"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
	assert.Equal(t, int64(9), svc.lastOrderID)
	assert.Equal(t, "In Progress", svc.lastStatus)
}

func TestChangeStatusEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown status", order.ErrUnknownStatus, http.StatusBadRequest},
		{"invalid transition", order.ErrInvalidTransition, http.StatusConflict},
		{"not found", ordersvc.ErrOrderNotFound, http.StatusNotFound},
		{"other", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := newTestTransport(&stubService{statusErr: tt.err})

			rec := doRequest(t, transport, http.MethodPost, "/orders/status", `{"orderId": 9, "orderStatus": "Delivered"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAcceptEndpoint(t *testing.T) {
	svc := &stubService{}
	transport := newTestTransport(svc)

	rec := doRequest(t, transport, http.MethodPost, "/orders/accept", `{"orderId": 42}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
	assert.Equal(t, int64(42), svc.lastOrderID)
}

func TestAcceptEndpoint_NotFound(t *testing.T) {
	transport := newTestTransport(&stubService{acceptErr: ordersvc.ErrOrderNotFound})

	rec := doRequest(t, transport, http.MethodPost, "/orders/accept", `{"orderId": 42}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPickUpAndDeliveredEndpoints(t *testing.T) {
	svc := &stubService{}
	transport := newTestTransport(svc)

	rec := doRequest(t, transport, http.MethodPost, "/orders/pickup/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.lastOrderID)

	rec = doRequest(t, transport, http.MethodPost, "/orders/delivered/6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(6), svc.lastOrderID)

	rec = doRequest(t, transport, http.MethodPost, "/orders/pickup/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPickUpEndpoint_InvalidTransition(t *testing.T) {
	transport := newTestTransport(&stubService{pickUpErr: order.ErrInvalidTransition})

	rec := doRequest(t, transport, http.MethodPost, "/orders/pickup/5", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrdersByUserEndpoint(t *testing.T) {
	svc := &stubService{
		ordersByUser: []order.Order{{ID: 1, CustomerID: 3}, {ID: 2, CustomerID: 3}},
	}
	transport := newTestTransport(svc)

	rec := doRequest(t, transport, http.MethodGet, "/orders/user/3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.lastCustomerID)

	var orders []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}

func TestOrdersByUserEndpoint_EmptyIsArray(t *testing.T) {
	transport := newTestTransport(&stubService{})

	rec := doRequest(t, transport, http.MethodGet, "/orders/user/3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestOrdersByRestaurantEndpoint(t *testing.T) {
	svc := &stubService{
		ordersByRest: []order.Order{{ID: 8, RestaurantID: 7, AcceptedByDriver: true}},
	}
	transport := newTestTransport(svc)

	rec := doRequest(t, transport, http.MethodGet, "/orders/restaurant/7", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var orders []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.True(t, orders[0].AcceptedByDriver)
}

func TestOrderItemsEndpoint(t *testing.T) {
	svc := &stubService{
		items: []orderitem.OrderItem{{ID: 1, OrderID: 9, MenuItemID: 3, Quantity: 2}},
	}
	transport := newTestTransport(svc)

	rec := doRequest(t, transport, http.MethodGet, "/orders/items/9", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var items []orderitem.OrderItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].MenuItemID)
}

func TestUnacceptedEndpoint(t *testing.T) {
	svc := &stubService{
		unaccepted: []order.Details{
			{
				Order:           order.Order{ID: 4, RestaurantID: 7},
				RestaurantName:  "Golden Wok",
				EstDeliveryTime: 25,
			},
		},
	}
	transport := newTestTransport(svc)

	rec := doRequest(t, transport, http.MethodGet, "/orders/unaccepted", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Golden Wok", decoded[0]["name"])
	assert.Equal(t, float64(25), decoded[0]["est_delivery_time"])
}

func TestAcceptedEndpoint(t *testing.T) {
	transport := newTestTransport(&stubService{accepted: true})

	rec := doRequest(t, transport, http.MethodGet, "/orders/accepted/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"order_accepted_by_driver": 1}`, rec.Body.String())

	transport = newTestTransport(&stubService{accepted: false})
	rec = doRequest(t, transport, http.MethodGet, "/orders/accepted/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"order_accepted_by_driver": 0}`, rec.Body.String())
}

func TestAcceptedEndpoint_NotFound(t *testing.T) {
	transport := newTestTransport(&stubService{acceptedErr: ordersvc.ErrOrderNotFound})

	rec := doRequest(t, transport, http.MethodGet, "/orders/accepted/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
