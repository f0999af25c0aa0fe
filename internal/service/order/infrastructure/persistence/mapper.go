package persistence

import (
	"database/sql"

	"tavolo/internal/service/order/domain"
)

func toOrderModel(o *domain.Order) *OrderModel {
	m := &OrderModel{
		ID:                  o.ID,
		CustomerID:          o.CustomerID,
		VendorID:            o.VendorID,
		Price:               o.Price,
		DestLat:             o.Destination.Lat,
		DestLong:            o.Destination.Long,
		SpecialRequirements: o.SpecialRequirements,
		Status:              string(o.Status),
		CreatedAt:           o.CreatedAt,
	}
	if o.Rating != nil {
		m.RatingGrade = sql.NullInt64{Int64: int64(o.Rating.Grade), Valid: true}
		m.RatingComment = sql.NullString{String: o.Rating.Comment, Valid: true}
	}
	for i, d := range o.Dishes {
		m.Dishes = append(m.Dishes, OrderDishModel{
			OrderID:   o.ID,
			Position:  i,
			DishID:    d.ID,
			Name:      d.Name,
			Allergens: append([]string(nil), d.Allergens...),
			Price:     d.Price,
		})
	}
	return m
}

func fromOrderModel(m *OrderModel) *domain.Order {
	o := &domain.Order{
		ID:                  m.ID,
		CustomerID:          m.CustomerID,
		VendorID:            m.VendorID,
		Price:               m.Price,
		Destination:         domain.Location{Lat: m.DestLat, Long: m.DestLong},
		SpecialRequirements: m.SpecialRequirements,
		Status:              domain.ParseStatus(m.Status),
		CreatedAt:           m.CreatedAt,
	}
	if m.RatingGrade.Valid {
		o.Rating = &domain.Rating{
			Grade:   int(m.RatingGrade.Int64),
			Comment: m.RatingComment.String,
		}
	}
	for _, d := range m.Dishes {
		o.Dishes = append(o.Dishes, domain.Dish{
			ID:        d.DishID,
			Name:      d.Name,
			Allergens: d.Allergens,
			Price:     d.Price,
		})
	}
	return o
}

func toVendorModel(v *domain.Vendor) *VendorModel {
	m := &VendorModel{
		ID:           v.ID,
		Name:         v.Name,
		Lat:          v.Location.Lat,
		Long:         v.Location.Long,
		OpeningHours: v.OpeningHours,
	}
	for i, d := range v.Catalog {
		m.Catalog = append(m.Catalog, VendorDishModel{
			ID:        d.ID,
			VendorID:  v.ID,
			Position:  i,
			Name:      d.Name,
			Allergens: append([]string(nil), d.Allergens...),
			Price:     d.Price,
		})
	}
	return m
}

func fromVendorModel(m *VendorModel) *domain.Vendor {
	v := &domain.Vendor{
		ID:           m.ID,
		Name:         m.Name,
		Location:     domain.Location{Lat: m.Lat, Long: m.Long},
		OpeningHours: m.OpeningHours,
	}
	for _, d := range m.Catalog {
		v.Catalog = append(v.Catalog, domain.Dish{
			ID:        d.ID,
			Name:      d.Name,
			Allergens: d.Allergens,
			Price:     d.Price,
		})
	}
	return v
}
