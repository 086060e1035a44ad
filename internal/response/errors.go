package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountInactive    ErrCode = "ACCOUNT_INACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"
	ErrSuperAdminOnly   ErrCode = "SUPER_ADMIN_ONLY"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidRole    ErrCode = "INVALID_ROLE"

	// ─── First access ──────────────────────────────────────────────────
	// ErrAccessTokenInvalid deliberately covers not-found, revoked and
	// expired alike: the endpoint must not reveal whether a token ever
	// existed (anti-enumeration).
	ErrAccessTokenInvalid ErrCode = "ACCESS_TOKEN_INVALID"
	ErrAccessTokenUsed    ErrCode = "ACCESS_TOKEN_USED"
	ErrWeakPassword       ErrCode = "WEAK_PASSWORD"
	ErrActivationConflict ErrCode = "ACTIVATION_CONFLICT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email ou palavra-passe incorretos."
	case ErrAccountInactive:
		return "Esta conta ainda não foi ativada."
	case ErrSessionInvalidated:
		return "A sua sessão terminou. Por favor, inicie sessão novamente."
	case ErrTokenRequired:
		return "Token de autenticação obrigatório."
	case ErrTokenInvalid:
		return "Token de autenticação inválido."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Não tem permissão para aceder a este recurso."
	case ErrAdminAccessOnly:
		return "Este recurso é reservado a administradores."
	case ErrSuperAdminOnly:
		return "Este recurso é reservado a super administradores."
	case ErrPermissionDenied:
		return "Permissão negada."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validação falhou. Verifique os dados introduzidos."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrInvalidPayload:
		return "Conteúdo do pedido inválido."
	case ErrInvalidRole:
		return "Função desconhecida."

	// ─── First access ──────────────────────────────────────────────────
	case ErrAccessTokenInvalid:
		return "Este convite não é válido. Contacte o administrador para receber um novo."
	case ErrAccessTokenUsed:
		return "Este convite já foi utilizado."
	case ErrWeakPassword:
		return "A palavra-passe não cumpre os requisitos de segurança."
	case ErrActivationConflict:
		return "Não foi possível concluir a ativação. Tente novamente."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."
	case ErrConflict:
		return "O recurso já existe."
	case ErrDependencyExists:
		return "Não é possível eliminar: o registo ainda é utilizado por outros dados."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiados pedidos. Tente novamente mais tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocorreu um erro interno do servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
