package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive    ProductStatus = "active"
	ProductStatusWithdrawn ProductStatus = "withdrawn"
)

// 数量帯ごとの卸価格。Max=0は上限なし（最終帯のみ許可）。
type PricingTier struct {
	Min   int64 `json:"min"`
	Max   int64 `json:"max"`
	Price int64 `json:"price"`
}

var (
	ErrNoPricingTiers     = errors.New("at least one pricing tier is required")
	ErrInvalidPricingTier = errors.New("invalid pricing tier")
	ErrOverlappingTiers   = errors.New("pricing tiers must not overlap")
	ErrUnorderedTiers     = errors.New("pricing tiers must be in ascending quantity order")
	ErrOpenTierNotLast    = errors.New("only the last pricing tier may be open-ended")
)

// ValidateTiersは価格帯の整合性を確認する。
// 昇順・非重複・min>=1・price>0。
func ValidateTiers(tiers []PricingTier) error {
	if len(tiers) == 0 {
		return ErrNoPricingTiers
	}

	for i, t := range tiers {
		if t.Min < 1 || t.Price <= 0 {
			return ErrInvalidPricingTier
		}
		if t.Max == 0 {
			//上限なしは最終帯だけ
			if i != len(tiers)-1 {
				return ErrOpenTierNotLast
			}
			continue
		}
		if t.Max < t.Min {
			return ErrInvalidPricingTier
		}
	}

	for i := 1; i < len(tiers); i++ {
		prev := tiers[i-1]
		cur := tiers[i]
		if cur.Min <= prev.Min {
			return ErrUnorderedTiers
		}
		if prev.Max != 0 && cur.Min <= prev.Max {
			return ErrOverlappingTiers
		}
	}

	return nil
}

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64  `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsPromo     bool   `gorm:"not null;default:false" json:"is_promo"`

	//外部ストレージのURL参照
	Images []string `gorm:"serializer:json" json:"images"`
	Video  string   `gorm:"type:varchar(512)" json:"video,omitempty"`

	PricingTiers []PricingTier `gorm:"serializer:json" json:"pricing_tiers"`
	Status       ProductStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	//レビュー集計のキャッシュ（正本はreviews全件）
	AvgRating   float64 `gorm:"not null;default:0" json:"avg_rating"`
	ReviewCount int64   `gorm:"not null;default:0" json:"review_count"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UnitPriceForは数量に該当する帯の単価を返す。
// どの帯にも入らない数量は最終帯の単価にフォールバックする。
func (p Product) UnitPriceFor(quantity int64) int64 {
	if len(p.PricingTiers) == 0 {
		return 0
	}

	for _, t := range p.PricingTiers {
		if quantity < t.Min {
			continue
		}
		if t.Max == 0 || quantity <= t.Max {
			return t.Price
		}
	}

	return p.PricingTiers[len(p.PricingTiers)-1].Price
}
