package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/buzzline/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePostFields(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error)
	SoftDeletePost(ctx context.Context, id string) error
	LikePost(ctx context.Context, id string, userID uint) error
	AddComment(ctx context.Context, postID string, comment *models.Comment) error
	AddSubComment(ctx context.Context, postID, commentID string, sub *models.SubComment) error
	GetPublicLatest(ctx context.Context) ([]models.Post, error)
	SampleRandomPublic(ctx context.Context) (*models.Post, error)
	GetNotBlockedAuthors(ctx context.Context, excludedAuthorIDs []uint) ([]models.Post, error)
	GetLikedBy(ctx context.Context, userID uint) ([]models.Post, error)
	GetByOwner(ctx context.Context, ownerID uint) ([]models.Post, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	GetLikerIDs(ctx context.Context, ownerID uint) ([]uint, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// activeByID is the filter shared by every mutation path: the post must
// exist and must not be soft-deleted.
func activeByID(objID primitive.ObjectID) bson.M {
	return bson.M{"_id": objID, "is_deleted": false}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a non-deleted post by ID
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, activeByID(objID)).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePostFields applies the non-nil fields of the request and returns
// the updated document
func (r *MongoPostRepository) UpdatePostFields(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrPostNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Text != nil {
		set["text"] = *req.Text
	}
	if req.IsPublic != nil {
		set["is_public"] = *req.IsPublic
	}
	if req.Hashtags != nil {
		set["hashtags"] = req.Hashtags
	}
	if req.FriendTags != nil {
		set["friend_tags"] = req.FriendTags
	}

	var post models.Post
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.collection.FindOneAndUpdate(ctx, activeByID(objID), bson.M{"$set": set}, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// SoftDeletePost marks a post deleted, retaining the record
func (r *MongoPostRepository) SoftDeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrPostNotFound
	}

	res, err := r.collection.UpdateOne(ctx, activeByID(objID), bson.M{
		"$set": bson.M{"is_deleted": true, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrPostNotFound
	}
	return nil
}

// LikePost appends the user to the post's like set. The likes guard in the
// filter makes the update conditional, so at-most-once holds even when two
// identical requests race.
func (r *MongoPostRepository) LikePost(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrPostNotFound
	}

	filter := activeByID(objID)
	filter["likes"] = bson.M{"$ne": userID}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the post is gone or the user already liked it
		if err := r.collection.FindOne(ctx, activeByID(objID)).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.ErrPostNotFound
			}
			return err
		}
		return models.ErrAlreadyLiked
	}
	return nil
}

// AddComment appends a comment with a freshly assigned ObjectID
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.ErrPostNotFound
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	if comment.SubComments == nil {
		comment.SubComments = []models.SubComment{}
	}

	res, err := r.collection.UpdateOne(ctx, activeByID(objID), bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrPostNotFound
	}
	return nil
}

// AddSubComment appends a sub-comment to the addressed comment using the
// positional operator
func (r *MongoPostRepository) AddSubComment(ctx context.Context, postID, commentID string, sub *models.SubComment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.ErrPostNotFound
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return models.ErrCommentNotFound
	}

	sub.CreatedAt = time.Now()

	filter := activeByID(objID)
	filter["comments._id"] = commentObjID
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"comments.$.sub_comments": sub}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing post from a missing comment
		if err := r.collection.FindOne(ctx, activeByID(objID)).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.ErrPostNotFound
			}
			return err
		}
		return models.ErrCommentNotFound
	}
	return nil
}

// visiblePublic is the shared visibility predicate for the explore feeds
var visiblePublic = bson.M{"is_public": true, "is_deleted": false}

// GetPublicLatest retrieves all public posts, newest first
func (r *MongoPostRepository) GetPublicLatest(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, visiblePublic, findOptions)
}

// SampleRandomPublic returns one uniformly-sampled post from the visible corpus
func (r *MongoPostRepository) SampleRandomPublic(ctx context.Context) (*models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: visiblePublic}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, models.ErrPostNotFound
	}
	return &posts[0], nil
}

// GetNotBlockedAuthors retrieves posts excluding those authored by the given
// users (the viewer's blockers)
func (r *MongoPostRepository) GetNotBlockedAuthors(ctx context.Context, excludedAuthorIDs []uint) ([]models.Post, error) {
	filter := bson.M{"is_deleted": false}
	if len(excludedAuthorIDs) > 0 {
		filter["user_id"] = bson.M{"$nin": excludedAuthorIDs}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, filter, findOptions)
}

// GetLikedBy retrieves posts the given user has liked
func (r *MongoPostRepository) GetLikedBy(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"likes": userID, "is_deleted": false}, nil)
}

// GetByOwner retrieves a user's own non-deleted posts
func (r *MongoPostRepository) GetByOwner(ctx context.Context, ownerID uint) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": ownerID, "is_deleted": false}, findOptions)
}

// CountByOwner counts a user's non-deleted posts. Zero posts is a valid
// answer, not an error.
func (r *MongoPostRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": ownerID, "is_deleted": false})
}

// GetLikerIDs returns the distinct users who liked any of the owner's posts
func (r *MongoPostRepository) GetLikerIDs(ctx context.Context, ownerID uint) ([]uint, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": ownerID, "is_deleted": false}}},
		{{Key: "$unwind", Value: "$likes"}},
		{{Key: "$group", Value: bson.M{"_id": nil, "likers": bson.M{"$addToSet": "$likes"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Likers []uint `bson:"likers"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []uint{}, nil
	}
	return results[0].Likers, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	var posts []models.Post
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
