package professional

import (
	"strings"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// Missing profile items, in the order the intake banner lists them.
const (
	MissingSpecialty = "specialty"
	MissingCity      = "city"
	MissingPrice     = "price_per_hour"
	MissingDocuments = "documents"
	MissingApproval  = "approval"
)

// Completeness is shown on the professional intake page. It never blocks
// the page itself.
type Completeness struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
}

func Evaluate(p *models.Professional) Completeness {
	missing := []string{}

	specialty := strings.TrimSpace(p.Specialty)
	if specialty == "" || specialty == models.PendingSpecialty {
		missing = append(missing, MissingSpecialty)
	}
	if strings.TrimSpace(p.City) == "" {
		missing = append(missing, MissingCity)
	}
	if p.PricePerHour <= 0 {
		missing = append(missing, MissingPrice)
	}
	if len(p.Documents) == 0 {
		missing = append(missing, MissingDocuments)
	}
	if !p.Approved {
		missing = append(missing, MissingApproval)
	}

	return Completeness{Complete: len(missing) == 0, Missing: missing}
}

// CanApprove requires at least one verification document.
func CanApprove(p *models.Professional) error {
	if len(p.Documents) == 0 {
		return httperr.ErrBusiness("documents_required")
	}
	return nil
}

func ValidatePrice(price float64) error {
	if price <= 0 {
		return httperr.ErrBusiness("invalid_price")
	}
	return nil
}
