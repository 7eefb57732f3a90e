package converter

import (
	dto "cashflow/internal/api/dto/auth"
	"cashflow/internal/model"
)

func SignupRequestToUserModel(req *dto.SignupRequest) *model.User {
	return &model.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

func UpdateRequestToProfileUpdate(req *dto.UpdateRequest) model.ProfileUpdate {
	return model.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

// ToUserResponse - хэш пароля наружу не отдается
func ToUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

func ToTokensResponse(data *model.AuthData) dto.TokensResponse {
	return dto.TokensResponse{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
	}
}
