package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/subledger-inc/subledger/internal/domain/subscription"
	vo "github.com/subledger-inc/subledger/internal/domain/subscription/valueobjects"
	"github.com/subledger-inc/subledger/internal/infrastructure/persistence/models"
	"github.com/subledger-inc/subledger/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
	ToModels(entities []*subscription.Subscription) ([]*models.SubscriptionModel, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	cadence := vo.Cadence(model.Cadence)
	if !vo.ValidCadences[cadence] {
		return nil, fmt.Errorf("invalid cadence: %s", model.Cadence)
	}

	var metadata map[string]interface{}
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	entity, err := subscription.Reconstruct(subscription.ReconstructParams{
		ID:             model.ID,
		SID:            model.SID,
		UUID:           model.UUID,
		CustomerRef:    model.CustomerRef,
		Plan:           model.Plan,
		Amount:         model.Amount,
		Cadence:        cadence,
		AnchorDate:     model.AnchorDate,
		LastChargeDate: model.LastChargeDate,
		NextChargeDate: model.NextChargeDate,
		Status:         status,
		AutoRenew:      model.AutoRenew,
		Notes:          model.Notes,
		CancelledAt:    model.CancelledAt,
		CancelReason:   model.CancelReason,
		Metadata:       metadata,
		Version:        model.Version,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = data
	}

	return &models.SubscriptionModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		UUID:           entity.UUID(),
		CustomerRef:    entity.CustomerRef(),
		Plan:           entity.Plan(),
		Amount:         entity.Amount(),
		Cadence:        entity.Cadence().String(),
		AnchorDate:     entity.AnchorDate(),
		LastChargeDate: entity.LastChargeDate(),
		NextChargeDate: entity.NextChargeDate(),
		Status:         entity.Status().String(),
		AutoRenew:      entity.AutoRenew(),
		Notes:          entity.Notes(),
		CancelledAt:    entity.CancelledAt(),
		CancelReason:   entity.CancelReason(),
		Metadata:       metadataJSON,
		Version:        entity.Version(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(modelList []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.SubscriptionModel) uint { return model.ID })
}

func (m *SubscriptionMapperImpl) ToModels(entities []*subscription.Subscription) ([]*models.SubscriptionModel, error) {
	return mapper.MapSlicePtrWithID(entities, m.ToModel, func(entity *subscription.Subscription) uint { return entity.ID() })
}
