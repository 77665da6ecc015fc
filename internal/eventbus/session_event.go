package eventbus

type SessionEventType string

const (
	SessionEventCompanySet           SessionEventType = "CompanySet"
	SessionEventRolesReplaced        SessionEventType = "RolesReplaced"
	SessionEventRoleAdded            SessionEventType = "RoleAdded"
	SessionEventCleared              SessionEventType = "SessionCleared"
	SessionEventConsultationRecorded SessionEventType = "ConsultationRecorded"
)

type SessionEvent struct {
	Type      SessionEventType
	SessionID string
	RoleID    string // RoleAdded / ConsultationRecorded
	RoleCount int    // RolesReplaced
}

type SessionEventHandler = Handler[SessionEvent]
type SessionEventBus = Bus[SessionEventType, SessionEvent]

func NewSessionEventBus() *SessionEventBus {
	return NewBus[SessionEventType, SessionEvent]()
}
