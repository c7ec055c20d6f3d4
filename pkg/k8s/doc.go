// Package k8s is the thin cluster query client used by console plugins.
//
// It is not a general Kubernetes client: it knows how to list and fetch the
// handful of kinds the console plugins read, and it reports every non-2xx
// response as a *StatusError so callers can branch on the status code.
//
// # Models
//
// A Model names a kind and where it is served. Well-known models are
// exported (StorageClassModel, StorageClusterModel, PipelineModel, ...)
// and can be looked up by console reference with ModelFor:
//
//	m, ok := k8s.ModelFor("tekton.dev~v1beta1~Pipeline")
//
// # Querying
//
//	client, err := k8s.NewHTTPClient(cfg)
//	items, err := client.List(ctx, k8s.StorageClusterModel,
//		k8s.InNamespace("openshift-storage"),
//		k8s.WithLabelSelector(map[string]string{"app": "ocs"}),
//	)
//
// Resource keeps the raw object; decode kind-specific fields into your own
// struct with Decode.
//
// # Errors
//
//	switch k8s.StatusCode(err) {
//	case 0:   // transport or decode failure
//	case 404: // kind or object does not exist
//	}
package k8s
