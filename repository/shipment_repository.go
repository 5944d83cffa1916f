package repository

import (
	"context"

	"github.com/amrahulsaini/casebuddy-sub000/models"

	"gorm.io/gorm"
)

// ShipmentRepository defines data-access operations for shipments.
type ShipmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Shipment, error)
	FindByOrderID(ctx context.Context, orderID uint) ([]models.Shipment, error)
	// FindSyncBatch returns up to limit shipments that have a carrier-assigned
	// AWB and belong to a paid order, oldest-updated-first. A non-zero orderID
	// scopes the batch to that order.
	FindSyncBatch(ctx context.Context, limit int, orderID uint) ([]models.Shipment, error)
	Update(ctx context.Context, shipment *models.Shipment) error
}

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository.
func NewGormShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &GormShipmentRepository{db: db}
}

func (r *GormShipmentRepository) FindByID(ctx context.Context, id uint) (*models.Shipment, error) {
	var s models.Shipment
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID uint) ([]models.Shipment, error) {
	var shipments []models.Shipment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

func (r *GormShipmentRepository) FindSyncBatch(ctx context.Context, limit int, orderID uint) ([]models.Shipment, error) {
	var shipments []models.Shipment

	query := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = shipments.order_id").
		Where("shipments.awb IS NOT NULL AND shipments.awb <> ''").
		Where("orders.payment_status IN ?", []string{
			models.PaymentStatusPaid,
			models.PaymentStatusCompleted,
			"confirmed",
		})

	if orderID != 0 {
		query = query.Where("shipments.order_id = ?", orderID)
	}

	if err := query.
		Order("shipments.updated_at ASC").
		Limit(limit).
		Find(&shipments).Error; err != nil {
		return nil, err
	}

	return shipments, nil
}

func (r *GormShipmentRepository) Update(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Save(shipment).Error
}
