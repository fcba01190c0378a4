package daily

// MaxParticipants в комнате всегда терапевт и клиент
const MaxParticipants = 2

// Room созданная комната звонка
type Room struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// createRoomRequest тело запроса POST /rooms
type createRoomRequest struct {
	Privacy    string         `json:"privacy"`
	Properties roomProperties `json:"properties"`
}

type roomProperties struct {
	Exp               int64 `json:"exp"`
	MaxParticipants   int   `json:"max_participants"`
	EnableChat        bool  `json:"enable_chat"`
	EnableScreenshare bool  `json:"enable_screenshare"`
	StartVideoOff     bool  `json:"start_video_off"`
}

// errorResponse модель ошибки провайдера
type errorResponse struct {
	Error string `json:"error"`
	Info  string `json:"info"`
}
