// Filesystem capacity collector.
package collector

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// pseudoFSTypes are virtual, in-memory or remote filesystems. They are hidden
// unless WithPseudoFilesystems(true) is set.
var pseudoFSTypes = map[string]bool{
	"autofs": true, "binfmt_misc": true, "bpf": true, "cgroup": true,
	"cgroup2": true, "configfs": true, "debugfs": true, "devfs": true,
	"devtmpfs": true, "efivarfs": true, "fusectl": true, "fuse.snapfuse": true,
	"hugetlbfs": true, "mqueue": true, "nsfs": true, "nullfs": true,
	"overlay": true, "proc": true, "procfs": true, "pstore": true,
	"ramfs": true, "securityfs": true, "squashfs": true, "sysfs": true,
	"tmpfs": true, "tracefs": true,

	"9p": true, "afs": true, "ceph": true, "cifs": true, "davfs2": true,
	"fuse.rclone": true, "fuse.sshfs": true, "glusterfs": true, "nfs": true,
	"nfs4": true, "smbfs": true,
}

// systemMountPrefixes are OS-internal volumes (macOS APFS system volumes).
var systemMountPrefixes = []string{"/System/Volumes/", "/private/var/vm"}

// Mounts returns usage for each real mounted filesystem ordered by path.
// Partitions that cannot be stat'ed are skipped.
func (s *System) Mounts(ctx context.Context) ([]MountStat, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, classify(snapshot.CategoryDisk, err)
	}

	var out []MountStat
	for _, p := range keepPartitions(partitions, s.includePseudoFS) {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			s.logger.Debug("Skipping unreadable mount",
				zap.String("mount", p.Mountpoint),
				zap.Error(err))
			continue
		}
		if usage.Total == 0 {
			continue
		}
		out = append(out, MountStat{
			Path:   p.Mountpoint,
			FSType: p.Fstype,
			Total:  usage.Total,
			Avail:  usage.Free,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// keepPartitions drops pseudo filesystems, system volumes and duplicate
// mount points (bind mounts list the same path more than once).
func keepPartitions(parts []disk.PartitionStat, includePseudo bool) []disk.PartitionStat {
	seen := make(map[string]bool, len(parts))
	out := parts[:0:0]
	for _, p := range parts {
		if seen[p.Mountpoint] {
			continue
		}
		if !includePseudo && (pseudoFSTypes[p.Fstype] || isSystemMount(p.Mountpoint)) {
			continue
		}
		seen[p.Mountpoint] = true
		out = append(out, p)
	}
	return out
}

func isSystemMount(mount string) bool {
	for _, prefix := range systemMountPrefixes {
		if strings.HasPrefix(mount, prefix) {
			return true
		}
	}
	return false
}
