package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/realty-marketplace/backend/config"
	"github.com/realty-marketplace/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateInquiry validates and persists a visitor inquiry. An invalid
// contact email rejects the write entirely; no record is created.
func CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	if err := inquiry.ValidateEmail(); err != nil {
		return err
	}
	if inquiry.Status == "" {
		inquiry.Status = models.InquiryStatusNew
	}

	now := time.Now()
	inquiry.ID = primitive.NewObjectID()
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	_, err := config.InquiryCollection.InsertOne(ctx, inquiry)
	return err
}

func GetInquiry(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := config.InquiryCollection.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}).Decode(&inquiry)
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// SaveInquiry persists the result of a state transition, including any text
// appended to the message log.
func SaveInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	inquiry.UpdatedAt = time.Now()
	_, err := config.InquiryCollection.UpdateOne(ctx, bson.M{"_id": inquiry.ID}, bson.M{"$set": bson.M{
		"status":    inquiry.Status,
		"message":   inquiry.Message,
		"updatedAt": inquiry.UpdatedAt,
	}})
	return err
}

// DeleteInquiry soft-deletes; the record stays recoverable.
func DeleteInquiry(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := config.InquiryCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"deletedAt": now,
		"updatedAt": now,
	}})
	return err
}

// agentPropertyIDs resolves the properties an agent manages. Inquiries have
// no agent reference of their own, so agent scoping goes through them.
func agentPropertyIDs(ctx context.Context, agentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := config.PropertyCollection.Find(ctx, bson.M{"agentId": agentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

type InquiryFilters struct {
	Status     string
	PropertyID primitive.ObjectID
	DateFrom   *time.Time
	DateTo     *time.Time
}

func inquiryScope(ctx context.Context, actor *models.User) (bson.M, error) {
	scope := bson.M{"deletedAt": nil}
	if actor.IsAdmin() {
		return scope, nil
	}
	propertyIDs, err := agentPropertyIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	scope["propertyId"] = bson.M{"$in": propertyIDs}
	return scope, nil
}

// sortByPriority surfaces the most urgent inquiries first: new, then
// follow-up, then contacted, then closed; ties broken by recency.
func sortByPriority(inquiries []models.Inquiry) {
	sort.SliceStable(inquiries, func(a, b int) bool {
		ra, rb := inquiries[a].PriorityRank(), inquiries[b].PriorityRank()
		if ra != rb {
			return ra < rb
		}
		return inquiries[a].CreatedAt.After(inquiries[b].CreatedAt)
	})
}

// ListInquiries returns the inquiry queue visible to the actor, priority
// ordered. Admins see everything; agents see inquiries for their own
// properties.
func ListInquiries(ctx context.Context, actor *models.User, filters InquiryFilters) ([]models.Inquiry, error) {
	filter, err := inquiryScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	if filters.Status != "" {
		filter["status"] = filters.Status
	}
	if !filters.PropertyID.IsZero() {
		filter["propertyId"] = filters.PropertyID
	}
	dateRange := bson.M{}
	if filters.DateFrom != nil {
		dateRange["$gte"] = *filters.DateFrom
	}
	if filters.DateTo != nil {
		dateRange["$lte"] = *filters.DateTo
	}
	if len(dateRange) > 0 {
		filter["createdAt"] = dateRange
	}

	cursor, err := config.InquiryCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, err
	}

	sortByPriority(inquiries)
	return inquiries, nil
}

// RecentInquiries returns the actor's open queue, capped at limit.
func RecentInquiries(ctx context.Context, actor *models.User, limit int) ([]models.Inquiry, error) {
	filter, err := inquiryScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	filter["status"] = bson.M{"$ne": models.InquiryStatusClosed}

	cursor, err := config.InquiryCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, err
	}

	sortByPriority(inquiries)
	if limit > 0 && len(inquiries) > limit {
		inquiries = inquiries[:limit]
	}
	return inquiries, nil
}

type InquiryStats struct {
	Total        int64   `json:"total"`
	New          int64   `json:"new"`
	Contacted    int64   `json:"contacted"`
	FollowUp     int64   `json:"follow_up"`
	Closed       int64   `json:"closed"`
	ResponseRate float64 `json:"response_rate"`
}

// InquiryStatistics counts inquiries per status within the actor's scope.
// Response rate is the share of inquiries that received any agent action.
func InquiryStatistics(ctx context.Context, actor *models.User) (*InquiryStats, error) {
	scope, err := inquiryScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	countWith := func(status string) (int64, error) {
		filter := bson.M{}
		for k, v := range scope {
			filter[k] = v
		}
		if status != "" {
			filter["status"] = status
		}
		return config.InquiryCollection.CountDocuments(ctx, filter)
	}

	stats := &InquiryStats{}
	if stats.Total, err = countWith(""); err != nil {
		return nil, err
	}
	if stats.New, err = countWith(models.InquiryStatusNew); err != nil {
		return nil, err
	}
	if stats.Contacted, err = countWith(models.InquiryStatusContacted); err != nil {
		return nil, err
	}
	if stats.FollowUp, err = countWith(models.InquiryStatusFollowUp); err != nil {
		return nil, err
	}
	if stats.Closed, err = countWith(models.InquiryStatusClosed); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		rate := float64(stats.Contacted+stats.FollowUp) / float64(stats.Total) * 100
		stats.ResponseRate = math.Round(rate*100) / 100
	}
	return stats, nil
}
