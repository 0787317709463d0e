package services

import (
	"context"
	"fmt"

	"partnerhub/internal/caching"
	"partnerhub/internal/models"
	"partnerhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PartnerProductService interface {
	Load(ctx context.Context) error
	ListAll() []*models.PartnerProduct
	ByPartner(partnerID uuid.UUID) []*models.PartnerProduct
	// GetPartnerProduct returns the partner's first product. Partners may own several.
	GetPartnerProduct(partnerID uuid.UUID) (*models.PartnerProduct, bool)
	FindByID(id uuid.UUID) (*models.PartnerProduct, bool)
	DocumentsOf(id uuid.UUID) []*models.Document

	Add(ctx context.Context, partnerID uuid.UUID, input *models.ProductInput, files []FileUpload) (*models.PartnerProduct, error)
	Update(ctx context.Context, id uuid.UUID, input *models.ProductInput, newFiles []FileUpload, removedDocIDs []uuid.UUID) (*models.PartnerProduct, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForPartner(ctx context.Context, partnerID uuid.UUID) error
}

type partnerProductState struct {
	products  []*models.PartnerProduct
	documents map[uuid.UUID][]*models.Document
}

type partnerProductService struct {
	db           repositories.TxBeginner
	repo         repositories.PartnerProductRepository
	documentRepo repositories.DocumentRepository
	docs         *documentManager
	mirror       *caching.Mirror[partnerProductState]
	logger       *zap.SugaredLogger
}

func NewPartnerProductService(db repositories.TxBeginner, repo repositories.PartnerProductRepository, documentRepo repositories.DocumentRepository, blobs BlobStore, lg *zap.SugaredLogger) PartnerProductService {
	return &partnerProductService{
		db:           db,
		repo:         repo,
		documentRepo: documentRepo,
		docs:         newDocumentManager(blobs, lg),
		mirror:       caching.NewMirror(partnerProductState{documents: map[uuid.UUID][]*models.Document{}}),
		logger:       lg,
	}
}

func (s *partnerProductService) Load(ctx context.Context) error {
	if err := s.mirror.Reload(ctx, s.fetchState); err != nil {
		s.logger.Errorw("failed to load partner products", "error", err)
		return fmt.Errorf("load partner products: %w", err)
	}
	return nil
}

func (s *partnerProductService) fetchState(ctx context.Context) (partnerProductState, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return partnerProductState{}, err
	}
	documents, err := s.documentRepo.List(ctx)
	if err != nil {
		return partnerProductState{}, fmt.Errorf("documents: %w", err)
	}

	state := partnerProductState{products: products, documents: map[uuid.UUID][]*models.Document{}}
	for _, doc := range documents {
		state.documents[doc.ParentID] = append(state.documents[doc.ParentID], doc)
	}
	return state, nil
}

func (s *partnerProductService) ListAll() []*models.PartnerProduct {
	var out []*models.PartnerProduct
	s.mirror.Read(func(st partnerProductState) {
		out = append(out, st.products...)
	})
	return out
}

func (s *partnerProductService) ByPartner(partnerID uuid.UUID) []*models.PartnerProduct {
	var out []*models.PartnerProduct
	s.mirror.Read(func(st partnerProductState) {
		for _, pp := range st.products {
			if pp.PartnerID == partnerID {
				out = append(out, pp)
			}
		}
	})
	return out
}

func (s *partnerProductService) GetPartnerProduct(partnerID uuid.UUID) (*models.PartnerProduct, bool) {
	products := s.ByPartner(partnerID)
	if len(products) == 0 {
		return nil, false
	}
	return products[0], true
}

func (s *partnerProductService) FindByID(id uuid.UUID) (*models.PartnerProduct, bool) {
	var found *models.PartnerProduct
	s.mirror.Read(func(st partnerProductState) {
		for _, pp := range st.products {
			if pp.ID == id {
				found = pp
				return
			}
		}
	})
	return found, found != nil
}

func (s *partnerProductService) DocumentsOf(id uuid.UUID) []*models.Document {
	var out []*models.Document
	s.mirror.Read(func(st partnerProductState) {
		out = append(out, st.documents[id]...)
	})
	return out
}

func (s *partnerProductService) Add(ctx context.Context, partnerID uuid.UUID, input *models.ProductInput, files []FileUpload) (*models.PartnerProduct, error) {
	if err := checkCap(nil, nil, len(files)); err != nil {
		return nil, err
	}

	var (
		product  *models.PartnerProduct
		created  []*models.Document
		uploaded []string
	)
	err := inTx(ctx, s.db, s.logger, func(tx pgx.Tx) error {
		var err error
		product, err = s.repo.WithTx(tx).Create(ctx, partnerID, input)
		if err != nil {
			return fmt.Errorf("create partner product: %w", err)
		}
		created, uploaded, err = s.docs.attach(ctx, s.documentRepo.WithTx(tx), product.ID, files)
		return err
	})
	if err != nil {
		s.docs.compensate(ctx, uploaded)
		s.logger.Errorw("failed to add partner product", "partner_id", partnerID, "error", err)
		return nil, err
	}

	s.mirror.Update(func(st partnerProductState) partnerProductState {
		st.products = append([]*models.PartnerProduct{product}, st.products...)
		st.documents[product.ID] = created
		return st
	})
	return product, nil
}

func (s *partnerProductService) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput, newFiles []FileUpload, removedDocIDs []uuid.UUID) (*models.PartnerProduct, error) {
	if _, ok := s.FindByID(id); !ok {
		return nil, repositories.ErrNotFound
	}
	existing := s.DocumentsOf(id)
	if err := checkCap(existing, removedDocIDs, len(newFiles)); err != nil {
		return nil, err
	}

	var (
		product  *models.PartnerProduct
		removed  []*models.Document
		created  []*models.Document
		uploaded []string
	)
	err := inTx(ctx, s.db, s.logger, func(tx pgx.Tx) error {
		docRepo := s.documentRepo.WithTx(tx)

		var err error
		product, err = s.repo.WithTx(tx).Update(ctx, id, input)
		if err != nil {
			return fmt.Errorf("update partner product: %w", err)
		}
		removed, err = s.docs.detach(ctx, docRepo, existing, removedDocIDs)
		if err != nil {
			return err
		}
		created, uploaded, err = s.docs.attach(ctx, docRepo, id, newFiles)
		return err
	})
	if err != nil {
		s.docs.compensate(ctx, uploaded)
		s.logger.Errorw("failed to update partner product", "partner_product_id", id, "error", err)
		return nil, err
	}

	s.docs.purge(ctx, removed)

	s.mirror.Update(func(st partnerProductState) partnerProductState {
		products := make([]*models.PartnerProduct, len(st.products))
		for i, pp := range st.products {
			if pp.ID == id {
				products[i] = product
			} else {
				products[i] = pp
			}
		}
		st.products = products
		st.documents[id] = append(withoutDocuments(st.documents[id], removed), created...)
		return st
	})
	return product, nil
}

func (s *partnerProductService) Delete(ctx context.Context, id uuid.UUID) error {
	documents := s.DocumentsOf(id)

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete partner product", "partner_product_id", id, "error", err)
		return fmt.Errorf("delete partner product: %w", err)
	}

	s.docs.purge(ctx, documents)
	s.forget(id)
	return nil
}

// DeleteAllForPartner removes every product the partner owns, blobs included
func (s *partnerProductService) DeleteAllForPartner(ctx context.Context, partnerID uuid.UUID) error {
	for _, pp := range s.ByPartner(partnerID) {
		if err := s.Delete(ctx, pp.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *partnerProductService) forget(id uuid.UUID) {
	s.mirror.Update(func(st partnerProductState) partnerProductState {
		products := make([]*models.PartnerProduct, 0, len(st.products))
		for _, pp := range st.products {
			if pp.ID != id {
				products = append(products, pp)
			}
		}
		st.products = products
		delete(st.documents, id)
		return st
	})
}
