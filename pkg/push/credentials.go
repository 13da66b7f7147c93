package push

// Environment selects the APNs endpoint.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// Hostname returns the APNs host for the environment.
func (e Environment) Hostname() string {
	if e == EnvironmentProduction {
		return "api.push.apple.com"
	}
	return "api.sandbox.push.apple.com"
}

// APNsCredential holds everything needed to sign and send against APNs.
type APNsCredential struct {
	TeamID      string
	KeyID       string
	BundleID    string
	P8Key       []byte // raw contents of the .p8 file
	Environment Environment
}

// Valid reports whether all required fields are present. Key parseability is
// checked separately by the signer so the error can say what is wrong.
func (c APNsCredential) Valid() bool {
	return c.TeamID != "" && c.KeyID != "" && c.BundleID != "" && len(c.P8Key) > 0
}

// Topic returns the apns-topic header value. Live Activity pushes address the
// push-type-qualified topic, everything else the bare bundle ID.
func (c APNsCredential) Topic(liveActivity bool) string {
	if liveActivity {
		return c.BundleID + ".push-type.liveactivity"
	}
	return c.BundleID
}

// FCMCredential holds the Firebase service-account material for FCM v1 sends.
type FCMCredential struct {
	ProjectID      string
	ClientEmail    string
	ServiceAccount []byte // raw service-account JSON
}

func (c FCMCredential) Valid() bool {
	return c.ProjectID != "" && c.ClientEmail != "" && len(c.ServiceAccount) > 0
}

// ExpoCredential is the optional Expo access token. Sends work without one
// unless push security is enabled for the app.
type ExpoCredential struct {
	AccessToken string
}
