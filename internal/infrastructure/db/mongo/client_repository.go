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
	"github.com/crmdesk/crm-system/internal/core/ports"
)

// ClientRepository implements ports.ClientRepository using MongoDB.
type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type clientDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	FirstName   string             `bson:"first_name"`
	LastName    string             `bson:"last_name"`
	CompanyName string             `bson:"company_name"`
	Email       string             `bson:"email,omitempty"`
	PhoneNumber string             `bson:"phone_number"`
	Address     string             `bson:"address"`
	City        string             `bson:"city,omitempty"`
	Country     string             `bson:"country"`
	IsActive    bool               `bson:"is_active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toClientDoc(c *domain.Client) clientDoc {
	return clientDoc{
		OwnerID:     c.OwnerID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		CompanyName: c.CompanyName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		City:        c.City,
		Country:     c.Country,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func (d clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		CompanyName: d.CompanyName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Address:     d.Address,
		City:        d.City,
		Country:     d.Country,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// clientScope builds the id+tenant lookup filter. An unparseable id is
// treated the same as an absent record.
func clientScope(id, ownerID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}
	filter := bson.M{"_id": oid}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	return filter, nil
}

// Create inserts a new client document and returns the entity with its
// store-assigned identity.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toClientDoc(c))
	if err != nil {
		return nil, err
	}

	created := *c
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := clientScope(id, ownerID)
	if err != nil {
		return nil, err
	}

	var doc clientDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := clientScope(c.ID, c.OwnerID)
	if err != nil {
		return err
	}

	res, err := r.col.ReplaceOne(ctx, filter, toClientDoc(c))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := clientScope(id, ownerID)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// DeleteByOwner removes every client of a tenant (the user-deletion
// cascade) and returns the removed ids for invoice detachment.
func (r *ClientRepository) DeleteByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
	}

	if _, err := r.col.DeleteMany(ctx, bson.M{"owner_id": ownerID}); err != nil {
		return nil, err
	}
	return ids, nil
}

// Search returns every client matching the filter, ordered per the
// whitelisted sort spec.
func (r *ClientRepository) Search(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, clientPredicate(filter),
		options.Find().SetSort(clientSort(filter)))
	if err != nil {
		return nil, err
	}
	return decodeClients(ctx, cursor)
}

// SearchPage returns one offset/limit window of the ordered result set plus
// the total matching count, which is computed against the same predicate
// independently of the window.
func (r *ClientRepository) SearchPage(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	predicate := clientPredicate(filter)

	total, err := r.col.CountDocuments(ctx, predicate)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	skip := int64(page-1) * int64(filter.Limit)

	cursor, err := r.col.Find(ctx, predicate, options.Find().
		SetSort(clientSort(filter)).
		SetSkip(skip).
		SetLimit(int64(filter.Limit)))
	if err != nil {
		return nil, 0, err
	}

	items, err := decodeClients(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ClientRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"owner_id": ownerID})
}

// MonthlyCounts groups the tenant's clients created within the calendar
// year by month. Only months with at least one record appear in the result.
func (r *ClientRepository) MonthlyCounts(ctx context.Context, ownerID string, year int) (map[int]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return monthlyCounts(ctx, r.col, ownerID, "created_at", year)
}

// monthlyCounts runs the shared month-of-year aggregation over dateField.
func monthlyCounts(ctx context.Context, col *mongo.Collection, ownerID, dateField string, year int) (map[int]int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"owner_id": ownerID,
			dateField:  bson.M{"$gte": start, "$lt": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$" + dateField},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Month int32 `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[int(row.Month)] = row.Count
	}
	return counts, nil
}

func decodeClients(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Client, error) {
	var docs []clientDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	clients := make([]*domain.Client, 0, len(docs))
	for _, d := range docs {
		clients = append(clients, d.toDomain())
	}
	return clients, nil
}

// EnsureIndexes creates the indexes the search and scoping paths rely on.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
