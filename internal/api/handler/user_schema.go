package handler

import "github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"

// createUserRequest is stored as received; every field is free text.
type createUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	PhotoURL   string `json:"photoURL"`
	Number     string `json:"number"`
	Role       string `json:"role"`
	BloodGroup string `json:"bloodGroup"`
	Address    string `json:"address"`
}

type insertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type createUserResponse struct {
	Success bool         `json:"success"`
	Result  insertResult `json:"result"`
}

type existingUserResponse struct {
	Message      string       `json:"message"`
	ExistingUser *domain.User `json:"existingUser"`
}

type messageResponse struct {
	Message string `json:"message"`
}
