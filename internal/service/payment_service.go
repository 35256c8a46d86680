package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/pkg/config"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// PaymentCurrency is the currency every package is quoted in.
const PaymentCurrency = "CAD"

var defaultTaxRate = decimal.RequireFromString("0.13")

type paymentPackage struct {
	level    models.CourseLevel
	sessions string
	price    decimal.Decimal
}

var paymentPackages = []paymentPackage{
	{level: models.CourseLevel1, sessions: "3 Sessions", price: decimal.NewFromInt(145)},
	{level: models.CourseLevel2, sessions: "3 Sessions", price: decimal.NewFromInt(185)},
	{level: models.CourseLevel3, sessions: "3 Sessions", price: decimal.NewFromInt(225)},
	{level: models.CourseLevel3Workshop, sessions: "Workshop", price: decimal.NewFromInt(80)},
}

// PaymentService quotes the course packages and resolves their static
// checkout links. Payment confirmation happens outside this service.
type PaymentService struct {
	links   map[models.CourseLevel]string
	taxRate decimal.Decimal
	logger  *zap.Logger
}

// NewPaymentService constructs the service. An unparsable tax rate falls back to 13%.
func NewPaymentService(cfg config.PaymentsConfig, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(cfg.TaxRate))
	if err != nil || rate.IsNegative() {
		rate = defaultTaxRate
	}
	return &PaymentService{
		links: map[models.CourseLevel]string{
			models.CourseLevel1:         strings.TrimSpace(cfg.Level1Link),
			models.CourseLevel2:         strings.TrimSpace(cfg.Level2Link),
			models.CourseLevel3:         strings.TrimSpace(cfg.Level3Link),
			models.CourseLevel3Workshop: strings.TrimSpace(cfg.WorkshopLink),
		},
		taxRate: rate,
		logger:  logger,
	}
}

// Options lists every package in display order.
func (s *PaymentService) Options() []models.PaymentOption {
	out := make([]models.PaymentOption, 0, len(paymentPackages))
	for _, p := range paymentPackages {
		out = append(out, s.option(p))
	}
	return out
}

// CheckoutURL returns the static checkout link for slug.
func (s *PaymentService) CheckoutURL(slug string) (string, error) {
	for _, p := range paymentPackages {
		if p.level.Slug() != strings.ToLower(strings.TrimSpace(slug)) {
			continue
		}
		link := s.links[p.level]
		if link == "" {
			s.logger.Warn("payment link not configured", zap.String("level", string(p.level)))
			return "", appErrors.Clone(appErrors.ErrNotFound, "payment link not configured")
		}
		return link, nil
	}
	return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown payment option %q", slug))
}

func (s *PaymentService) option(p paymentPackage) models.PaymentOption {
	tax := p.price.Mul(s.taxRate).Round(2)
	return models.PaymentOption{
		Title:       string(p.level),
		Level:       p.level,
		Slug:        p.level.Slug(),
		Sessions:    p.sessions,
		Currency:    PaymentCurrency,
		PriceLabel:  fmt.Sprintf("$%s %s + HST", p.price.String(), PaymentCurrency),
		Price:       p.price,
		Tax:         tax,
		Total:       p.price.Add(tax),
		CheckoutURL: s.links[p.level],
	}
}
