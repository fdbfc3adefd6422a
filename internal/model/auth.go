package model

// AuthData данные авторизации, возвращаемые после регистрации или входа
type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}
