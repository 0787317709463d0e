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

type ProductService interface {
	Load(ctx context.Context) error
	List() []*models.Product
	FindByID(id uuid.UUID) (*models.Product, bool)
	ByPartner(partnerID uuid.UUID) []*models.Product
	DocumentsOf(productID uuid.UUID) []*models.Document
	PartnersOf(productID uuid.UUID) []uuid.UUID

	Add(ctx context.Context, input *models.ProductInput, partnerIDs []uuid.UUID, files []FileUpload) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input *models.ProductInput, partnerIDs []uuid.UUID, newFiles []FileUpload, removedDocIDs []uuid.UUID) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UnassignPartner drops a deleted partner from every product's join set.
	// The store cascades product_partners on partner delete.
	UnassignPartner(partnerID uuid.UUID)
}

type productState struct {
	products  []*models.Product
	partners  map[uuid.UUID][]uuid.UUID
	documents map[uuid.UUID][]*models.Document
}

type productService struct {
	db           repositories.TxBeginner
	productRepo  repositories.ProductRepository
	documentRepo repositories.DocumentRepository
	docs         *documentManager
	mirror       *caching.Mirror[productState]
	logger       *zap.SugaredLogger
}

func NewProductService(db repositories.TxBeginner, productRepo repositories.ProductRepository, documentRepo repositories.DocumentRepository, blobs BlobStore, lg *zap.SugaredLogger) ProductService {
	return &productService{
		db:           db,
		productRepo:  productRepo,
		documentRepo: documentRepo,
		docs:         newDocumentManager(blobs, lg),
		mirror: caching.NewMirror(productState{
			partners:  map[uuid.UUID][]uuid.UUID{},
			documents: map[uuid.UUID][]*models.Document{},
		}),
		logger: lg,
	}
}

func (s *productService) Load(ctx context.Context) error {
	if err := s.mirror.Reload(ctx, s.fetchState); err != nil {
		s.logger.Errorw("failed to load products", "error", err)
		return fmt.Errorf("load products: %w", err)
	}
	return nil
}

func (s *productService) fetchState(ctx context.Context) (productState, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return productState{}, err
	}
	assignments, err := s.productRepo.ListAssignments(ctx)
	if err != nil {
		return productState{}, fmt.Errorf("assignments: %w", err)
	}
	documents, err := s.documentRepo.List(ctx)
	if err != nil {
		return productState{}, fmt.Errorf("documents: %w", err)
	}

	state := productState{
		products:  products,
		partners:  map[uuid.UUID][]uuid.UUID{},
		documents: map[uuid.UUID][]*models.Document{},
	}
	for _, a := range assignments {
		state.partners[a.ProductID] = append(state.partners[a.ProductID], a.PartnerID)
	}
	for _, doc := range documents {
		state.documents[doc.ParentID] = append(state.documents[doc.ParentID], doc)
	}
	return state, nil
}

func (s *productService) List() []*models.Product {
	var out []*models.Product
	s.mirror.Read(func(st productState) {
		out = append(out, st.products...)
	})
	return out
}

func (s *productService) FindByID(id uuid.UUID) (*models.Product, bool) {
	var found *models.Product
	s.mirror.Read(func(st productState) {
		for _, p := range st.products {
			if p.ID == id {
				found = p
				return
			}
		}
	})
	return found, found != nil
}

func (s *productService) ByPartner(partnerID uuid.UUID) []*models.Product {
	var out []*models.Product
	s.mirror.Read(func(st productState) {
		for _, p := range st.products {
			for _, id := range st.partners[p.ID] {
				if id == partnerID {
					out = append(out, p)
					break
				}
			}
		}
	})
	return out
}

func (s *productService) DocumentsOf(productID uuid.UUID) []*models.Document {
	var out []*models.Document
	s.mirror.Read(func(st productState) {
		out = append(out, st.documents[productID]...)
	})
	return out
}

func (s *productService) PartnersOf(productID uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	s.mirror.Read(func(st productState) {
		out = append(out, st.partners[productID]...)
	})
	return out
}

func (s *productService) Add(ctx context.Context, input *models.ProductInput, partnerIDs []uuid.UUID, files []FileUpload) (*models.Product, error) {
	if err := checkCap(nil, nil, len(files)); err != nil {
		return nil, err
	}

	var (
		product  *models.Product
		created  []*models.Document
		uploaded []string
	)
	err := inTx(ctx, s.db, s.logger, func(tx pgx.Tx) error {
		var err error
		product, err = s.productRepo.WithTx(tx).Create(ctx, input)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if err := s.productRepo.WithTx(tx).AssignPartners(ctx, product.ID, partnerIDs); err != nil {
			return fmt.Errorf("assign partners: %w", err)
		}
		created, uploaded, err = s.docs.attach(ctx, s.documentRepo.WithTx(tx), product.ID, files)
		return err
	})
	if err != nil {
		s.docs.compensate(ctx, uploaded)
		s.logger.Errorw("failed to add product", "name", input.Name, "error", err)
		return nil, err
	}

	assigned := append([]uuid.UUID(nil), partnerIDs...)
	s.mirror.Update(func(st productState) productState {
		st.products = append([]*models.Product{product}, st.products...)
		st.partners[product.ID] = assigned
		st.documents[product.ID] = created
		return st
	})
	s.logger.Infow("product added", "product_id", product.ID, "partners", len(partnerIDs), "documents", len(created))
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput, partnerIDs []uuid.UUID, newFiles []FileUpload, removedDocIDs []uuid.UUID) (*models.Product, error) {
	if _, ok := s.FindByID(id); !ok {
		return nil, repositories.ErrNotFound
	}
	existing := s.DocumentsOf(id)
	if err := checkCap(existing, removedDocIDs, len(newFiles)); err != nil {
		return nil, err
	}

	var (
		product  *models.Product
		removed  []*models.Document
		created  []*models.Document
		uploaded []string
	)
	err := inTx(ctx, s.db, s.logger, func(tx pgx.Tx) error {
		repo := s.productRepo.WithTx(tx)
		docRepo := s.documentRepo.WithTx(tx)

		var err error
		product, err = repo.Update(ctx, id, input)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if err := repo.ClearPartners(ctx, id); err != nil {
			return fmt.Errorf("clear partners: %w", err)
		}
		if err := repo.AssignPartners(ctx, id, partnerIDs); err != nil {
			return fmt.Errorf("assign partners: %w", err)
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
		s.logger.Errorw("failed to update product", "product_id", id, "error", err)
		return nil, err
	}

	s.docs.purge(ctx, removed)

	assigned := append([]uuid.UUID(nil), partnerIDs...)
	s.mirror.Update(func(st productState) productState {
		products := make([]*models.Product, len(st.products))
		for i, p := range st.products {
			if p.ID == id {
				products[i] = product
			} else {
				products[i] = p
			}
		}
		st.products = products
		st.partners[id] = assigned
		st.documents[id] = append(withoutDocuments(st.documents[id], removed), created...)
		return st
	})
	return product, nil
}

// Delete removes the product row, then its blobs. Join rows and document
// rows go with the product through ON DELETE CASCADE.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	documents := s.DocumentsOf(id)

	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete product", "product_id", id, "error", err)
		return fmt.Errorf("delete product: %w", err)
	}

	s.docs.purge(ctx, documents)

	s.mirror.Update(func(st productState) productState {
		products := make([]*models.Product, 0, len(st.products))
		for _, p := range st.products {
			if p.ID != id {
				products = append(products, p)
			}
		}
		st.products = products
		delete(st.partners, id)
		delete(st.documents, id)
		return st
	})
	return nil
}

func (s *productService) UnassignPartner(partnerID uuid.UUID) {
	s.mirror.Update(func(st productState) productState {
		partners := make(map[uuid.UUID][]uuid.UUID, len(st.partners))
		for productID, ids := range st.partners {
			kept := make([]uuid.UUID, 0, len(ids))
			for _, id := range ids {
				if id != partnerID {
					kept = append(kept, id)
				}
			}
			if len(kept) > 0 {
				partners[productID] = kept
			}
		}
		st.partners = partners
		return st
	})
}
