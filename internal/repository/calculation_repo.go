package repository

import (
	"context"
	"errors"
	"time"

	"github.com/contabilidadepro/contabilidade-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CalculationRepository guarda um cálculo por (empresa, tipo, competência).
type CalculationRepository struct {
	coll *mongo.Collection
}

func NewCalculationRepository(db *mongo.Database) *CalculationRepository {
	return &CalculationRepository{coll: db.Collection("calculations")}
}

func (r *CalculationRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndex(ctx, r.coll, mongo.IndexModel{
		Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "tipo", Value: 1},
			{Key: "competencia", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_company_tipo_competencia"),
	})
}

// Save faz upsert pela chave natural. Um recálculo da mesma competência
// substitui os valores do anterior, preservando _id e created_at do
// registro original. A operação é um único findAndModify, então dois
// recálculos simultâneos não geram registros duplicados.
func (r *CalculationRepository) Save(ctx context.Context, c *models.Calculation) (*models.Calculation, error) {
	now := time.Now().UTC()
	c.UpdatedAt = now

	raw, err := bson.Marshal(c)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "_id")
	delete(fields, "created_at")

	filter := bson.M{"company_id": c.CompanyID, "tipo": c.Tipo, "competencia": c.Competencia}
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"_id": c.ID, "created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.Calculation
	err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved)
	// dois upserts concorrentes podem colidir no índice único; o segundo vira update
	if mongo.IsDuplicateKeyError(err) {
		err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved)
	}
	if err != nil {
		return nil, err
	}
	*c = saved
	return c, nil
}

func (r *CalculationRepository) GetByID(ctx context.Context, id string) (*models.Calculation, error) {
	var c models.Calculation
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByCompany lista do mais recente para o mais antigo; tipo vazio traz todos.
func (r *CalculationRepository) ListByCompany(ctx context.Context, companyID, tipo string, limit, skip int64) ([]models.Calculation, error) {
	filter := bson.M{"company_id": companyID}
	if tipo != "" {
		filter["tipo"] = tipo
	}
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.D{{Key: "competencia", Value: -1}, {Key: "tipo", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Calculation{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CalculationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByCompany remove os cálculos de uma empresa excluída.
func (r *CalculationRepository) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
