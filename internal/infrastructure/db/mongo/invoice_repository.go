package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crmdesk/crm-system/internal/core/domain"
)

// InvoiceRepository implements ports.InvoiceRepository using MongoDB.
type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection(collectionInvoices)}
}

type invoiceDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID       string             `bson:"owner_id"`
	ClientID      string             `bson:"client_id,omitempty"`
	InvoiceNumber string             `bson:"invoice_number"`
	BillingDate   time.Time          `bson:"billing_date"`
	Amount        float64            `bson:"amount"`
	Status        string             `bson:"status"`
	Note          string             `bson:"note,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toInvoiceDoc(inv *domain.Invoice) invoiceDoc {
	return invoiceDoc{
		OwnerID:       inv.OwnerID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		BillingDate:   inv.BillingDate.UTC(),
		Amount:        inv.Amount,
		Status:        string(inv.Status),
		Note:          inv.Note,
		CreatedAt:     inv.CreatedAt.UTC(),
		UpdatedAt:     inv.UpdatedAt.UTC(),
	}
}

func (d invoiceDoc) toDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:            d.ID.Hex(),
		OwnerID:       d.OwnerID,
		ClientID:      d.ClientID,
		InvoiceNumber: d.InvoiceNumber,
		BillingDate:   d.BillingDate,
		Amount:        d.Amount,
		Status:        domain.InvoiceStatus(d.Status),
		Note:          d.Note,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func invoiceScope(id, ownerID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvoiceNotFound
	}
	filter := bson.M{"_id": oid}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	return filter, nil
}

// Create inserts a new invoice. The unique index on invoice_number turns a
// duplicate number into domain.ErrDuplicateInvoiceNumber.
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toInvoiceDoc(inv))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
		return nil, err
	}

	created := *inv
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := invoiceScope(id, ownerID)
	if err != nil {
		return nil, err
	}

	var doc invoiceDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *InvoiceRepository) FindByNumber(ctx context.Context, number, ownerID string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"invoice_number": number}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}

	var doc invoiceDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// ListByClient returns a client's invoices, most recent billing first.
func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID, ownerID string) ([]*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"client_id": clientID}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}

	cursor, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "billing_date", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var docs []invoiceDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	invoices := make([]*domain.Invoice, 0, len(docs))
	for _, d := range docs {
		invoices = append(invoices, d.toDomain())
	}
	return invoices, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := invoiceScope(inv.ID, inv.OwnerID)
	if err != nil {
		return err
	}

	res, err := r.col.ReplaceOne(ctx, filter, toInvoiceDoc(inv))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := invoiceScope(id, ownerID)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// DetachByClients clears the client reference on every invoice of the given
// clients. The invoices stay in place under their owner for archival.
func (r *InvoiceRepository) DetachByClients(ctx context.Context, clientIDs []string) (int64, error) {
	if len(clientIDs) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"client_id": bson.M{"$in": clientIDs}},
		bson.M{"$unset": bson.M{"client_id": ""}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MonthlyCounts groups the tenant's invoices billed within the calendar
// year by month.
func (r *InvoiceRepository) MonthlyCounts(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return monthlyCounts(ctx, r.col, ownerID, "billing_date", year)
}

// EnsureIndexes creates the invoice indexes; invoice_number is globally unique.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoice_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "billing_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
