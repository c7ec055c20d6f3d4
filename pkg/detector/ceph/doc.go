// Package ceph provides the feature detectors of the storage console plugin.
//
// Three detectors are registered by Register:
//
//   - ceph.ocs lists StorageClusters in openshift-storage and reports OCS,
//     OCS_CONVERGED and OCS_INDEPENDENT from the first cluster that is not
//     in the Ignored phase.
//   - ceph.supported-features reads the enabled-features annotation of the
//     ocs-operator ClusterServiceVersion and reports OCS_MULTUS.
//   - ceph.rgw polls StorageClasses every 10s until one is provisioned by
//     the RGW bucket provisioner, then reports RGW=true.
//
// CEPH and LSO are exported for plugins that set them from model presence.
package ceph
