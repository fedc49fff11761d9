package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
	testhelpers "github.com/polkiloo/cherrytrack/internal/test"
)

func newOrderUseCase(now int64) (*OrderUseCase, *testhelpers.OrderRepositoryStub) {
	repo := testhelpers.NewOrderRepositoryStub()
	uc := NewOrderUseCase(repo)
	uc.now = func() time.Time { return time.Unix(now, 0) }
	return uc, repo
}

func validDraft() model.OrderDraft {
	return model.OrderDraft{
		MallOrderNo:      "M1",
		RecipientName:    "张三",
		RecipientPhone:   "13800000000",
		RecipientAddress: "X市Y路1号",
		Items:            []model.Item{{Variety: "A", Size: "28-30mm", Boxes: 2}},
	}
}

func strPtr(s string) *string { return &s }

func TestOrderUseCaseCreate(t *testing.T) {
	uc, repo := newOrderUseCase(1700000000)

	order, err := uc.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.DisplayID() != "001" {
		t.Fatalf("expected display id 001, got %s", order.DisplayID())
	}
	stored, ok := repo.Order(order.ID)
	if !ok {
		t.Fatal("order not stored")
	}
	if stored.Status != model.OrderStatusPending || stored.TrackingNumber != nil || stored.CreatedAt != 1700000000 {
		t.Fatalf("unexpected stored order: %+v", stored)
	}
}

func TestOrderUseCaseCreateTrimsFields(t *testing.T) {
	uc, repo := newOrderUseCase(1)
	draft := validDraft()
	draft.RecipientName = "  张三 "

	order, err := uc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := repo.Order(order.ID)
	if stored.RecipientName != "张三" {
		t.Fatalf("expected trimmed name, got %q", stored.RecipientName)
	}
}

func TestOrderUseCaseCreateRejectsMissingFields(t *testing.T) {
	cases := map[string]func(*model.OrderDraft){
		"mall order no": func(d *model.OrderDraft) { d.MallOrderNo = "" },
		"name":          func(d *model.OrderDraft) { d.RecipientName = " " },
		"phone":         func(d *model.OrderDraft) { d.RecipientPhone = "" },
		"address":       func(d *model.OrderDraft) { d.RecipientAddress = "" },
		"no items":      func(d *model.OrderDraft) { d.Items = nil },
		"empty items":   func(d *model.OrderDraft) { d.Items = []model.Item{} },
		"zero boxes":    func(d *model.OrderDraft) { d.Items[0].Boxes = 0 },
		"blank variety": func(d *model.OrderDraft) { d.Items[0].Variety = "" },
		"blank size":    func(d *model.OrderDraft) { d.Items[0].Size = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			uc, repo := newOrderUseCase(1)
			draft := validDraft()
			mutate(&draft)
			if _, err := uc.Create(context.Background(), draft); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := repo.Order(1); ok {
				t.Fatal("invalid draft must not be stored")
			}
		})
	}
}

func TestOrderUseCaseCreatePropagatesError(t *testing.T) {
	uc, repo := newOrderUseCase(1)
	repo.Err = domainErrors.Persistence("insert order", errors.New("down"))

	if _, err := uc.Create(context.Background(), validDraft()); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestOrderUseCaseSearch(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	repo.Put(model.Order{ID: 1, RecipientName: "张三", RecipientPhone: "13800000000", CreatedAt: 100})
	repo.Put(model.Order{ID: 2, RecipientName: "张三", RecipientPhone: "13800000000", CreatedAt: 300})
	repo.Put(model.Order{ID: 3, RecipientName: "张三", RecipientPhone: "13900000000", CreatedAt: 200})

	orders, err := uc.Search(context.Background(), " 张三 ", "13800000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 2 || orders[1].ID != 1 {
		t.Fatalf("expected newest first [2 1], got %+v", orders)
	}
	if repo.LastSearchName != "张三" {
		t.Fatalf("expected trimmed name, got %q", repo.LastSearchName)
	}
}

func TestOrderUseCaseSearchValidation(t *testing.T) {
	uc, _ := newOrderUseCase(0)
	if _, err := uc.Search(context.Background(), "", "138"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.Search(context.Background(), "张三", " "); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderUseCaseSearchNoMatchIsNotFound(t *testing.T) {
	uc, _ := newOrderUseCase(0)
	_, err := uc.Search(context.Background(), "李四", "13800000000")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if domainErrors.Message(err, "") != "未找到匹配的订单" {
		t.Fatalf("unexpected message %q", domainErrors.Message(err, ""))
	}
}

func TestOrderUseCaseList(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	for i := int64(1); i <= 3; i++ {
		repo.Put(model.Order{ID: i, Status: model.OrderStatusPending, CreatedAt: i})
	}
	repo.Put(model.Order{ID: 4, Status: model.OrderStatusShipped, CreatedAt: 4})

	page, err := uc.List(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || page.Limit != PageSize || len(page.Orders) != 4 || page.Orders[0].ID != 4 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if repo.LastFilter.Offset != 0 || repo.LastFilter.Limit != 50 || repo.LastFilter.Status != nil {
		t.Fatalf("unexpected filter: %+v", repo.LastFilter)
	}

	page, err = uc.List(context.Background(), "shipped", 1)
	if err != nil || len(page.Orders) != 1 || page.Orders[0].ID != 4 {
		t.Fatalf("unexpected filtered page: %+v err=%v", page, err)
	}

	page, err = uc.List(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 3 || len(page.Orders) != 0 || page.Orders == nil {
		t.Fatalf("out of range page must be empty, got %+v", page)
	}
	if repo.LastFilter.Offset != 100 {
		t.Fatalf("expected offset 100, got %d", repo.LastFilter.Offset)
	}

	if _, err := uc.List(context.Background(), "lost", 1); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderUseCaseListHugePageIsEmpty(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	repo.Put(model.Order{ID: 1, Status: model.OrderStatusPending, CreatedAt: 1})

	for _, page := range []int{math.MaxInt, math.MaxInt/PageSize + 2, 184467440737095518} {
		repo.LastFilter = model.OrderFilter{}
		result, err := uc.List(context.Background(), "", page)
		if err != nil {
			t.Fatalf("page %d: unexpected error: %v", page, err)
		}
		if result.Page != page || result.Limit != PageSize || result.Orders == nil || len(result.Orders) != 0 {
			t.Fatalf("page %d: expected empty page, got %+v", page, result)
		}
		if repo.LastFilter.Offset < 0 {
			t.Fatalf("page %d: negative offset %d reached the store", page, repo.LastFilter.Offset)
		}
	}

	// the last page whose offset still fits is queried normally
	last := math.MaxInt/PageSize + 1
	if _, err := uc.List(context.Background(), "", last); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.LastFilter.Offset != (last-1)*PageSize || repo.LastFilter.Offset < 0 {
		t.Fatalf("unexpected offset %d", repo.LastFilter.Offset)
	}

	if _, err := uc.List(context.Background(), "lost", math.MaxInt); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}
}

func TestOrderUseCaseUpdateFields(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	repo.Put(model.Order{ID: 1, RecipientName: "张三", RecipientAddress: "old", Items: []model.Item{{Variety: "A", Size: "L", Boxes: 1}}})

	err := uc.UpdateFields(context.Background(), 1, model.OrderPatch{
		RecipientAddress: strPtr(" new "),
		Items:            []model.Item{{Variety: "B", Size: "XL", Boxes: 3}, {Variety: "C", Size: "L", Boxes: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := repo.Order(1)
	if stored.RecipientAddress != "new" || stored.RecipientName != "张三" {
		t.Fatalf("unexpected stored order: %+v", stored)
	}
	if len(stored.Items) != 2 || stored.Items[0].Variety != "B" {
		t.Fatalf("items must be replaced, got %+v", stored.Items)
	}

	if err := uc.UpdateFields(context.Background(), 1, model.OrderPatch{}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty patch, got %v", err)
	}
	if err := uc.UpdateFields(context.Background(), 1, model.OrderPatch{Items: []model.Item{}}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}
	if err := uc.UpdateFields(context.Background(), 1, model.OrderPatch{RecipientName: strPtr("")}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	if err := uc.UpdateFields(context.Background(), 99, model.OrderPatch{RecipientName: strPtr("x")}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderUseCaseUpdateStatusIsPermissive(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	repo.Put(model.Order{ID: 1, Status: model.OrderStatusCompleted})

	// completed -> pending is accepted.
	if err := uc.UpdateStatus(context.Background(), 1, "pending"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := repo.Order(1)
	if stored.Status != model.OrderStatusPending {
		t.Fatalf("expected pending, got %s", stored.Status)
	}

	for _, status := range model.OrderStatuses() {
		if err := uc.UpdateStatus(context.Background(), 1, string(status)); err != nil {
			t.Fatalf("status %s rejected: %v", status, err)
		}
	}

	for _, bad := range []string{"", "cancelled", "Shipped"} {
		if err := uc.UpdateStatus(context.Background(), 1, bad); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("expected validation error for %q, got %v", bad, err)
		}
	}

	// a valid status only fails when the order does not exist
	if err := uc.UpdateStatus(context.Background(), 404, "shipped"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for a missing order, got %v", err)
	}
}

func TestOrderUseCaseUpdateTracking(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	repo.Put(model.Order{ID: 1})

	if err := uc.UpdateTracking(context.Background(), 1, strPtr(" 123 ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := repo.Order(1)
	if stored.TrackingNumber == nil || *stored.TrackingNumber != "123" {
		t.Fatalf("expected trimmed tracking number, got %v", stored.TrackingNumber)
	}

	if err := uc.UpdateTracking(context.Background(), 1, strPtr("123")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, _ := repo.Order(1)
	if *again.TrackingNumber != "123" {
		t.Fatalf("repeat update changed state: %v", *again.TrackingNumber)
	}

	for _, blank := range []*string{strPtr(""), strPtr("   "), nil} {
		if err := uc.UpdateTracking(context.Background(), 1, blank); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cleared, _ := repo.Order(1)
		if cleared.TrackingNumber != nil {
			t.Fatalf("expected nil tracking number, got %q", *cleared.TrackingNumber)
		}
	}
}

func TestOrderUseCaseCompleteAndShipped(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	repo.Put(model.Order{ID: 1, Status: model.OrderStatusShipped, TrackingNumber: strPtr("SF1")})
	repo.Put(model.Order{ID: 2, Status: model.OrderStatusShipped})
	repo.Put(model.Order{ID: 3, Status: model.OrderStatusReviewed, TrackingNumber: strPtr("SF3")})

	orders, err := uc.ShippedWithTracking(context.Background())
	if err != nil || len(orders) != 1 || orders[0].ID != 1 {
		t.Fatalf("unexpected shipped orders: %+v err=%v", orders, err)
	}

	if err := uc.Complete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.Complete(context.Background(), 1); err != nil {
		t.Fatalf("repeat completion must succeed: %v", err)
	}
	stored, _ := repo.Order(1)
	if stored.Status != model.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
}

func TestOrderUseCaseGet(t *testing.T) {
	uc, repo := newOrderUseCase(0)
	repo.Put(model.Order{ID: 5, MallOrderNo: "M5"})

	order, err := uc.Get(context.Background(), 5)
	if err != nil || order.MallOrderNo != "M5" {
		t.Fatalf("unexpected order: %+v err=%v", order, err)
	}
	if _, err := uc.Get(context.Background(), 6); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
