package metrics

const Namespace = "session_guard"

const (
	CallbackKindSignin  = "signin"
	CallbackKindSilent  = "silent"
	CallbackKindSignout = "signout"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

const (
	ProviderOperationDiscovery = "discovery"
	ProviderOperationExchange  = "exchange"
	ProviderOperationRefresh   = "refresh"
	ProviderOperationUserInfo  = "userinfo"
	ProviderOperationRevoke    = "revoke"
)
