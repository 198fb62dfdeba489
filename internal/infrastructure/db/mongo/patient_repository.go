package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vetcore/clinic-api/internal/core/domain"
)

const patientsCollection = "patients"

type MongoPatientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *MongoPatientRepository {
	return &MongoPatientRepository{coll: db.Collection(patientsCollection)}
}

type mongoPatient struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	TenantID     string             `bson:"tenant_id"`
	RecordNumber string             `bson:"record_number"`
	Name         string             `bson:"name"`
	Species      string             `bson:"species"`
	Breed        string             `bson:"breed,omitempty"`
	BirthDate    int64              `bson:"birth_date,omitempty"`
	TutorName    string             `bson:"tutor_name"`
	TutorPhone   string             `bson:"tutor_phone,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *MongoPatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	doc := mongoPatient{
		TenantID:     patient.TenantID,
		RecordNumber: patient.RecordNumber,
		Name:         patient.Name,
		Species:      patient.Species,
		Breed:        patient.Breed,
		TutorName:    patient.TutorName,
		TutorPhone:   patient.TutorPhone,
		CreatedAt:    patient.CreatedAt.Unix(),
		UpdatedAt:    patient.UpdatedAt.Unix(),
	}
	if !patient.BirthDate.IsZero() {
		doc.BirthDate = patient.BirthDate.Unix()
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePatient
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		patient.ID = oid.Hex()
	}
	return nil
}

func (r *MongoPatientRepository) FindByRecordNumber(ctx context.Context, tenantID, recordNumber string) (*domain.Patient, error) {
	var mp mongoPatient
	filter := bson.M{"tenant_id": tenantID, "record_number": recordNumber}
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return toDomainPatient(&mp), nil
}

func (r *MongoPatientRepository) List(ctx context.Context, tenantID string, limit, offset int64) ([]*domain.Patient, int64, error) {
	filter := bson.M{"tenant_id": tenantID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	var patients []*domain.Patient
	for cur.Next(ctx) {
		var mp mongoPatient
		if err := cur.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode patient: %w", err)
		}
		patients = append(patients, toDomainPatient(&mp))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate patients: %w", err)
	}

	return patients, total, nil
}

func toDomainPatient(mp *mongoPatient) *domain.Patient {
	return &domain.Patient{
		ID:           mp.ID.Hex(),
		TenantID:     mp.TenantID,
		RecordNumber: mp.RecordNumber,
		Name:         mp.Name,
		Species:      mp.Species,
		Breed:        mp.Breed,
		BirthDate:    unixToTime(mp.BirthDate),
		TutorName:    mp.TutorName,
		TutorPhone:   mp.TutorPhone,
		CreatedAt:    unixToTime(mp.CreatedAt),
		UpdatedAt:    unixToTime(mp.UpdatedAt),
	}
}
