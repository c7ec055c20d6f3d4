package k8s

import "time"

// Config configures HTTPClient. Defaults match an in-cluster service account.
type Config struct {
	APIURL    string        `env:"K8S_API_URL" envDefault:"https://kubernetes.default.svc"`                                 // APIURL is the base URL of the cluster API server.
	Token     string        `env:"K8S_TOKEN"`                                                                              // Token is a bearer token. Takes precedence over TokenFile.
	TokenFile string        `env:"K8S_TOKEN_FILE" envDefault:"/var/run/secrets/kubernetes.io/serviceaccount/token"`         // TokenFile is read when Token is empty. A missing file means no auth.
	CAFile    string        `env:"K8S_CA_FILE" envDefault:"/var/run/secrets/kubernetes.io/serviceaccount/ca.crt"`           // CAFile is a PEM bundle used to verify the API server. A missing file means system roots.
	Insecure  bool          `env:"K8S_INSECURE" envDefault:"false"`                                                        // Insecure disables TLS verification.
	Timeout   time.Duration `env:"K8S_TIMEOUT" envDefault:"30s"`                                                           // Timeout bounds a single request.
}
