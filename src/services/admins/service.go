package admins

import (
	"context"
	"errors"

	DB "franchise-intake-api/src/database"
	"franchise-intake-api/src/models"
	"franchise-intake-api/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Login authenticates an admin and issues an access token.
func Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var admin models.Admin
	err := DB.AdminCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Email, "admin")
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		Name:  admin.Name,
		Email: admin.Email,
	}, nil
}
