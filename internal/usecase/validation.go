package usecase

import (
	"strings"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

const (
	msgMissingField   = "缺少必填字段"
	msgInvalidItems   = "商品信息不完整"
	msgNoPatchFields  = "没有提供需要更新的字段"
	msgInvalidStatus  = "无效的状态值"
	msgSearchRequired = "请提供姓名和电话"
	msgNoOrdersFound  = "未找到匹配的订单"
)

// NormalizeDraft trims required fields and validates the draft in place.
func NormalizeDraft(draft *model.OrderDraft) error {
	fields := []*string{&draft.MallOrderNo, &draft.RecipientName, &draft.RecipientPhone, &draft.RecipientAddress}
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return domainErrors.Validation(msgMissingField)
		}
	}
	if len(draft.Items) == 0 {
		return domainErrors.Validation(msgMissingField)
	}
	return normalizeItems(draft.Items)
}

// NormalizePatch trims supplied fields and rejects blank replacements.
func NormalizePatch(patch *model.OrderPatch) error {
	if patch.Empty() {
		return domainErrors.Validation(msgNoPatchFields)
	}
	fields := []*string{patch.MallOrderNo, patch.RecipientName, patch.RecipientPhone, patch.RecipientAddress}
	for _, f := range fields {
		if f == nil {
			continue
		}
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return domainErrors.Validation(msgMissingField)
		}
	}
	if patch.Items != nil {
		if len(patch.Items) == 0 {
			return domainErrors.Validation(msgMissingField)
		}
		return normalizeItems(patch.Items)
	}
	return nil
}

func normalizeItems(items []model.Item) error {
	for i := range items {
		items[i].Variety = strings.TrimSpace(items[i].Variety)
		items[i].Size = strings.TrimSpace(items[i].Size)
		if items[i].Variety == "" || items[i].Size == "" || items[i].Boxes < 1 {
			return domainErrors.Validation(msgInvalidItems)
		}
	}
	return nil
}

// ParseStatus converts raw input into a known status.
func ParseStatus(raw string) (model.OrderStatus, error) {
	status := model.OrderStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", domainErrors.Validation(msgInvalidStatus)
	}
	return status, nil
}

// NormalizeTrackingNumber trims the value; blank becomes nil.
func NormalizeTrackingNumber(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// checkStatusTransition is the single place where status changes are vetted.
// Any known status may currently overwrite any other so staff can correct mistakes.
func checkStatusTransition(next model.OrderStatus) error {
	if !next.Valid() {
		return domainErrors.Validation(msgInvalidStatus)
	}
	return nil
}
