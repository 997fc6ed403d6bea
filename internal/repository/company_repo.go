package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contabilidadepro/contabilidade-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateCNPJ = errors.New("cnpj already exists")
	ErrNotFound      = errors.New("not found")
)

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection("companies")}
}

func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndex(ctx, r.coll, mongo.IndexModel{
		Keys:    bson.D{{Key: "cnpj", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_cnpj"),
	})
}

// ensureIndex cria o índice; se já existir com outras opções, dropa e recria.
func ensureIndex(ctx context.Context, coll *mongo.Collection, model mongo.IndexModel) error {
	_, err := coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 85 { // IndexOptionsConflict
		name := *model.Options.Name
		if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr != nil {
			return fmt.Errorf("drop index %s: %w", name, dropErr)
		}
		_, err = coll.Indexes().CreateOne(ctx, model)
	}
	return err
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) (string, error) {
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateCNPJ
		}
		return "", err
	}
	id, _ := res.InsertedID.(string) // _id é o CNPJ sanitizado
	return id, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) GetAll(ctx context.Context, limit int64, skip int64) ([]models.Company, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update aplica só os campos preenchidos de c.
func (r *CompanyRepository) Update(ctx context.Context, id string, c *models.Company) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if c.NomeFantasia != "" {
		set["nome_fantasia"] = c.NomeFantasia
	}
	if c.RazaoSocial != "" {
		set["razao_social"] = c.RazaoSocial
	}
	if c.Endereco != "" {
		set["endereco"] = c.Endereco
	}
	if c.RegimeTributario != "" {
		set["regime_tributario"] = c.RegimeTributario
	}
	if c.Anexo != "" {
		set["anexo"] = c.Anexo
	}
	if c.AtividadePrincipal != "" {
		set["atividade_principal"] = c.AtividadePrincipal
	}
	if c.CNPJ != "" {
		set["cnpj"] = c.CNPJ
	}

	update := bson.M{"$set": set}
	// anexo só existe no Simples Nacional
	if c.RegimeTributario != "" && c.RegimeTributario != models.RegimeSimplesNacional {
		delete(set, "anexo")
		update["$unset"] = bson.M{"anexo": ""}
	}

	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCNPJ
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Replace(ctx context.Context, id string, c *models.Company) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCNPJ
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
