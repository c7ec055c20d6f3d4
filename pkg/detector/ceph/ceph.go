package ceph

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/consolekit/pkg/detector"
	"github.com/dmitrymomot/consolekit/pkg/k8s"
	"github.com/dmitrymomot/consolekit/pkg/timer"
)

// Flags reported by the storage plugin.
const (
	FlagOCS            = "OCS"
	FlagOCSConverged   = "OCS_CONVERGED"
	FlagOCSIndependent = "OCS_INDEPENDENT"
	FlagCeph           = "CEPH"
	FlagLSO            = "LSO"
	FlagRGW            = "RGW"
	FlagOCSMultus      = "OCS_MULTUS"
)

const (
	// StorageNamespace is where the storage operator and its clusters live.
	StorageNamespace = "openshift-storage"

	// OperatorPrefix is the name prefix of the storage operator CSV.
	OperatorPrefix = "ocs-operator"

	// SupportAnnotation lists the features the installed operator enables,
	// as a JSON array of strings.
	SupportAnnotation = "features.ocs.openshift.io/enabled"

	// RGWProvisioner is the object bucket provisioner backed by RGW.
	RGWProvisioner = "openshift-storage.ceph.rook.io/bucket"

	// phaseIgnored marks a StorageCluster the operator does not reconcile.
	phaseIgnored = "Ignored"
)

// Detector names used in the registry.
const (
	DetectorOCS               = "ceph.ocs"
	DetectorSupportedFeatures = "ceph.supported-features"
	DetectorRGW               = "ceph.rgw"
)

// SupportedFeatures maps operator support keys to the flags they drive.
var SupportedFeatures = map[string]string{
	"MULTUS": FlagOCSMultus,
}

var (
	// ErrNoStorageCluster indicates every StorageCluster is ignored or none exists yet.
	ErrNoStorageCluster = errors.New("ceph: no active storage cluster")

	// ErrMissingStatus indicates a StorageCluster without a status, as seen
	// right after it is created.
	ErrMissingStatus = errors.New("ceph: storage cluster has no status")

	// ErrNoOperator indicates the storage operator CSV was not found.
	ErrNoOperator = errors.New("ceph: storage operator not installed")

	// ErrInvalidAnnotation indicates the support annotation is not a JSON string array.
	ErrInvalidAnnotation = errors.New("ceph: invalid feature support annotation")
)

// NewOCSDetector reports whether OCS is installed and in which mode.
// An internal (converged) cluster has no external storage configured.
func NewOCSDetector(client k8s.Client, sched timer.Scheduler, opts ...detector.Option) *detector.OneShot {
	probe := func(ctx context.Context) ([]detector.Assignment, error) {
		clusters, err := client.List(ctx, k8s.StorageClusterModel, k8s.InNamespace(StorageNamespace))
		if err != nil {
			return nil, err
		}

		cluster, err := activeCluster(clusters)
		if err != nil {
			return nil, err
		}

		internal, err := isInternal(cluster)
		if err != nil {
			return nil, err
		}

		return []detector.Assignment{
			detector.Set(FlagOCS, true),
			detector.Set(FlagOCSConverged, internal),
			detector.Set(FlagOCSIndependent, !internal),
		}, nil
	}

	return detector.NewOneShot(DetectorOCS, []string{FlagOCSConverged, FlagOCSIndependent}, probe, sched, opts...)
}

// activeCluster returns the first cluster that is not ignored. Clusters are
// checked in order and one without a status fails the lookup.
func activeCluster(clusters []k8s.Resource) (k8s.Resource, error) {
	for _, c := range clusters {
		var sc struct {
			Status *struct {
				Phase string `json:"phase"`
			} `json:"status"`
		}
		if err := c.Decode(&sc); err != nil {
			return k8s.Resource{}, err
		}
		if sc.Status == nil {
			return k8s.Resource{}, errors.Join(ErrMissingStatus, errors.New(c.GetName()))
		}
		if sc.Status.Phase != phaseIgnored {
			return c, nil
		}
	}
	return k8s.Resource{}, ErrNoStorageCluster
}

func isInternal(cluster k8s.Resource) (bool, error) {
	var sc struct {
		Spec struct {
			ExternalStorage map[string]any `json:"externalStorage"`
		} `json:"spec"`
	}
	if err := cluster.Decode(&sc); err != nil {
		return false, err
	}
	return len(sc.Spec.ExternalStorage) == 0, nil
}

// NewSupportedFeaturesDetector reads the operator CSV annotation and reports
// one flag per entry of SupportedFeatures.
func NewSupportedFeaturesDetector(client k8s.Client, sched timer.Scheduler, opts ...detector.Option) *detector.OneShot {
	owned := make([]string, 0, len(SupportedFeatures))
	keys := supportKeys()
	for _, key := range keys {
		owned = append(owned, SupportedFeatures[key])
	}

	probe := func(ctx context.Context) ([]detector.Assignment, error) {
		csvs, err := client.List(ctx, k8s.ClusterServiceVersionModel, k8s.InNamespace(StorageNamespace))
		if err != nil {
			return nil, err
		}

		i := slices.IndexFunc(csvs, func(r k8s.Resource) bool {
			return strings.HasPrefix(r.GetName(), OperatorPrefix)
		})
		if i < 0 {
			return nil, ErrNoOperator
		}

		enabled, err := parseSupport(csvs[i].GetAnnotations()[SupportAnnotation])
		if err != nil {
			return nil, err
		}

		assignments := make([]detector.Assignment, 0, len(keys))
		for _, key := range keys {
			assignments = append(assignments,
				detector.Set(SupportedFeatures[key], slices.Contains(enabled, strings.ToLower(key))))
		}
		return assignments, nil
	}

	return detector.NewOneShot(DetectorSupportedFeatures, owned, probe, sched, opts...)
}

func supportKeys() []string {
	return slices.Sorted(maps.Keys(SupportedFeatures))
}

func parseSupport(annotation string) ([]string, error) {
	var enabled []string
	if err := json.Unmarshal([]byte(annotation), &enabled); err != nil {
		return nil, errors.Join(ErrInvalidAnnotation, err)
	}
	if enabled == nil {
		return nil, errors.Join(ErrInvalidAnnotation, errors.New("annotation is null"))
	}
	return enabled, nil
}

// NewRGWDetector polls StorageClasses until one uses the RGW bucket provisioner.
func NewRGWDetector(client k8s.Client, sched timer.Scheduler, opts ...detector.Option) *detector.Poller {
	match := func(ctx context.Context) (bool, error) {
		classes, err := client.List(ctx, k8s.StorageClassModel)
		if err != nil {
			return false, err
		}
		return slices.ContainsFunc(classes, hasRGWProvisioner), nil
	}

	return detector.NewPoller(DetectorRGW, FlagRGW, detector.DefaultPollInterval, match, sched, opts...)
}

func hasRGWProvisioner(sc k8s.Resource) bool {
	var v struct {
		Provisioner string `json:"provisioner"`
	}
	if err := sc.Decode(&v); err != nil {
		return false
	}
	return v.Provisioner == RGWProvisioner
}

// Register adds the storage detectors to reg.
func Register(reg *detector.Registry, client k8s.Client, sched timer.Scheduler, opts ...detector.Option) error {
	return errors.Join(
		reg.Register(DetectorOCS, NewOCSDetector(client, sched, opts...)),
		reg.Register(DetectorSupportedFeatures, NewSupportedFeaturesDetector(client, sched, opts...)),
		reg.Register(DetectorRGW, NewRGWDetector(client, sched, opts...)),
	)
}
