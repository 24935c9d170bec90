// Package directory provides lookups of contractors, companies and
// jobsites, plus the upstream management calls the admin uses to maintain
// them. The scheduling and ledger packages only ever read from here.
package directory

import (
	"context"
	"strings"

	"ironcraft/apperr"
	"ironcraft/docstore"
	"ironcraft/models"
)

type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetContractor(ctx context.Context, id string) (*models.Contractor, error) {
	doc, err := s.store.Get(ctx, models.ContractorCollection, id)
	if err != nil {
		return nil, err
	}
	c, err := docstore.Decode[models.Contractor](doc)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) FindContractorByEmail(ctx context.Context, email string) (*models.Contractor, error) {
	docs, err := s.store.List(ctx, models.ContractorCollection, docstore.Eq("email", email))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperr.NotFound(models.ContractorCollection, email)
	}
	c, err := docstore.Decode[models.Contractor](docs[0])
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ListContractors(ctx context.Context) ([]models.Contractor, error) {
	docs, err := s.store.List(ctx, models.ContractorCollection)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Contractor](docs)
}

func (s *Service) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	doc, err := s.store.Get(ctx, models.CompanyCollection, id)
	if err != nil {
		return nil, err
	}
	c, err := docstore.Decode[models.Company](doc)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]models.Company, error) {
	docs, err := s.store.List(ctx, models.CompanyCollection)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Company](docs)
}

func (s *Service) CreateCompany(ctx context.Context, company models.Company) (*models.Company, error) {
	if strings.TrimSpace(company.Name) == "" {
		return nil, apperr.Invalid("name", "company name is required")
	}
	doc, err := s.store.Create(ctx, models.CompanyCollection, docstore.NewID(), company)
	if err != nil {
		return nil, err
	}
	created, err := docstore.Decode[models.Company](doc)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) DeleteCompany(ctx context.Context, id string) error {
	return s.store.Delete(ctx, models.CompanyCollection, id)
}

func (s *Service) GetJobsite(ctx context.Context, id string) (*models.Jobsite, error) {
	doc, err := s.store.Get(ctx, models.JobsiteCollection, id)
	if err != nil {
		return nil, err
	}
	j, err := docstore.Decode[models.Jobsite](doc)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Service) ListJobsites(ctx context.Context) ([]models.Jobsite, error) {
	docs, err := s.store.List(ctx, models.JobsiteCollection)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Jobsite](docs)
}

func (s *Service) ListJobsitesForCompany(ctx context.Context, companyID string) ([]models.Jobsite, error) {
	docs, err := s.store.List(ctx, models.JobsiteCollection, docstore.Eq("company_id", companyID))
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Jobsite](docs)
}

func (s *Service) CreateJobsite(ctx context.Context, name, address, companyID string) (*models.Jobsite, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Invalid("name", "jobsite name is required")
	}
	if strings.TrimSpace(address) == "" {
		return nil, apperr.Invalid("address", "jobsite address is required")
	}
	if strings.TrimSpace(companyID) == "" {
		return nil, apperr.Invalid("company_id", "company selection is required")
	}
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	jobsite := models.Jobsite{Name: name, Address: address, CompanyID: companyID}
	doc, err := s.store.Create(ctx, models.JobsiteCollection, docstore.NewID(), jobsite)
	if err != nil {
		return nil, err
	}
	created, err := docstore.Decode[models.Jobsite](doc)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) DeleteJobsite(ctx context.Context, id string) error {
	return s.store.Delete(ctx, models.JobsiteCollection, id)
}
