package k8s

import (
	"net/url"
	"path"
	"strings"
)

// Model describes a cluster resource kind and where it is served.
type Model struct {
	Kind       string
	Plural     string
	APIGroup   string // empty for the core group
	APIVersion string
	Abbr       string
	Label      string
	Namespaced bool
}

// GroupVersion returns "version" for core kinds and "group/version" otherwise.
func (m Model) GroupVersion() string {
	if m.APIGroup == "" {
		return m.APIVersion
	}
	return m.APIGroup + "/" + m.APIVersion
}

// Reference returns the console kind reference of the model.
func (m Model) Reference() string {
	return ReferenceForModel(m)
}

func (m Model) valid() bool {
	return m.Kind != "" && m.Plural != "" && m.APIVersion != ""
}

// path builds the REST path for a collection or, when name is set, a
// single object.
func (m Model) path(namespace, name string) string {
	parts := []string{"/api", m.APIVersion}
	if m.APIGroup != "" {
		parts = []string{"/apis", m.APIGroup, m.APIVersion}
	}
	if m.Namespaced && namespace != "" {
		parts = append(parts, "namespaces", url.PathEscape(namespace))
	}
	parts = append(parts, m.Plural)
	if name != "" {
		parts = append(parts, url.PathEscape(name))
	}
	return path.Join(parts...)
}

// ReferenceForModel returns "group~version~kind", or the bare kind for
// core group models.
func ReferenceForModel(m Model) string {
	if m.APIGroup == "" {
		return m.Kind
	}
	return strings.Join([]string{m.APIGroup, m.APIVersion, m.Kind}, "~")
}

// KindForReference returns the kind part of a reference.
func KindForReference(ref string) string {
	if i := strings.LastIndex(ref, "~"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

var (
	NamespaceModel = Model{
		Kind: "Namespace", Plural: "namespaces", APIVersion: "v1",
		Abbr: "NS", Label: "Namespace",
	}
	PodModel = Model{
		Kind: "Pod", Plural: "pods", APIVersion: "v1",
		Abbr: "P", Label: "Pod", Namespaced: true,
	}
	StorageClassModel = Model{
		Kind: "StorageClass", Plural: "storageclasses", APIGroup: "storage.k8s.io", APIVersion: "v1",
		Abbr: "SC", Label: "StorageClass",
	}
	StorageClusterModel = Model{
		Kind: "StorageCluster", Plural: "storageclusters", APIGroup: "ocs.openshift.io", APIVersion: "v1",
		Abbr: "OCS", Label: "Storage Cluster", Namespaced: true,
	}
	ClusterServiceVersionModel = Model{
		Kind: "ClusterServiceVersion", Plural: "clusterserviceversions", APIGroup: "operators.coreos.com", APIVersion: "v1alpha1",
		Abbr: "CSV", Label: "ClusterServiceVersion", Namespaced: true,
	}
	ObjectBucketClaimModel = Model{
		Kind: "ObjectBucketClaim", Plural: "objectbucketclaims", APIGroup: "objectbucket.io", APIVersion: "v1alpha1",
		Abbr: "OBC", Label: "Object Bucket Claim", Namespaced: true,
	}
	ObjectBucketModel = Model{
		Kind: "ObjectBucket", Plural: "objectbuckets", APIGroup: "objectbucket.io", APIVersion: "v1alpha1",
		Abbr: "OB", Label: "Object Bucket",
	}
	PipelineModel = Model{
		Kind: "Pipeline", Plural: "pipelines", APIGroup: "tekton.dev", APIVersion: "v1beta1",
		Abbr: "PL", Label: "Pipeline", Namespaced: true,
	}
	PipelineRunModel = Model{
		Kind: "PipelineRun", Plural: "pipelineruns", APIGroup: "tekton.dev", APIVersion: "v1beta1",
		Abbr: "PLR", Label: "PipelineRun", Namespaced: true,
	}
)

var knownModels = []Model{
	NamespaceModel,
	PodModel,
	StorageClassModel,
	StorageClusterModel,
	ClusterServiceVersionModel,
	ObjectBucketClaimModel,
	ObjectBucketModel,
	PipelineModel,
	PipelineRunModel,
}

// ModelFor looks a model up by reference ("group~version~kind") or by bare
// kind.
func ModelFor(ref string) (Model, bool) {
	for _, m := range knownModels {
		if ReferenceForModel(m) == ref {
			return m, true
		}
	}
	if strings.Contains(ref, "~") {
		return Model{}, false
	}
	for _, m := range knownModels {
		if m.Kind == ref {
			return m, true
		}
	}
	return Model{}, false
}
