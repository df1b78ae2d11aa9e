package main

import (
	"encoding/json"
	"time"
)

// Program identity written into the report header
const programName = "showoci"

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// Sentinels for relationships that could not be resolved
const (
	notFound = "Not Found"
	notExist = "(Not Exist)"
)

// Envelope is one top-level element of the report export
type Envelope struct {
	Type   string `json:"type"`
	Region string `json:"region,omitempty"`
	Data   any    `json:"data"`
}

// Header describes the run that produced a report
type Header struct {
	Program    string `json:"program"`
	Version    string `json:"version"`
	RunID      string `json:"run_id"`
	Date       string `json:"date"`
	Tenancy    string `json:"tenancy"`
	TenancyID  string `json:"tenancy_id"`
	HomeRegion string `json:"home_region"`
	Cmdline    string `json:"cmdline,omitempty"`
}

func newHeader(run *Run, tenancy Tenancy, home Region) Header {
	return Header{
		Program:    programName,
		Version:    version,
		RunID:      run.ID,
		Date:       run.Started.Format(time.DateTime),
		Tenancy:    tenancy.Name,
		TenancyID:  tenancy.ID,
		HomeRegion: home.Name,
	}
}

// Report is the denormalized result of a run. It holds no reference to the store.
type Report struct {
	Header   Header
	Identity *IdentityReport
	Regions  []RegionReport
}

// Envelopes flattens the report into its export shape
func (r *Report) Envelopes() []Envelope {
	envelopes := []Envelope{{Type: "showoci", Data: r.Header}}
	if r.Identity != nil {
		envelopes = append(envelopes, Envelope{Type: "identity", Data: r.Identity})
	}
	for _, region := range r.Regions {
		envelopes = append(envelopes, Envelope{Type: "region", Region: region.Region, Data: region.Compartments})
	}
	return envelopes
}

// RegionReport holds the compartments of one region that own any resource
type RegionReport struct {
	Region       string              `json:"region"`
	Compartments []CompartmentReport `json:"data"`
}

type CompartmentReport struct {
	CompartmentID   string          `json:"compartment_id"`
	CompartmentName string          `json:"compartment_name"`
	Path            string          `json:"path"`
	Network         *NetworkReport  `json:"network,omitempty"`
	Compute         *ComputeReport  `json:"compute,omitempty"`
	Database        *DatabaseReport `json:"database,omitempty"`
}

// Empty reports whether nothing was found in the compartment
func (c CompartmentReport) Empty() bool {
	return c.Network == nil && c.Compute == nil && c.Database == nil
}

// Ref is a resolved relationship. An unresolved Ref keeps the id it pointed at
// and displays as "Not Found"; a Ref without an id displays as "".
type Ref struct {
	ID       string
	Name     string
	Resolved bool
}

func resolvedRef(id, name string) Ref {
	return Ref{ID: id, Name: name, Resolved: true}
}

func unresolvedRef(id string) Ref {
	return Ref{ID: id}
}

// String returns the display value of the relationship
func (r Ref) String() string {
	switch {
	case r.ID == "":
		return ""
	case !r.Resolved:
		return notFound
	default:
		return r.Name
	}
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{ID: r.ID, Name: r.String()})
}

// Network report nodes

type NetworkReport struct {
	Vcns            []VcnNode            `json:"vcn,omitempty"`
	Drgs            []DrgNode            `json:"drg,omitempty"`
	Cpes            []CpeNode            `json:"cpe,omitempty"`
	IPSec           []IPSecNode          `json:"ipsec,omitempty"`
	VirtualCircuits []VirtualCircuitNode `json:"virtual_circuit,omitempty"`
}

type VcnNode struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	CidrBlocks       []string          `json:"cidr_blocks"`
	DomainName       string            `json:"domain_name"`
	InternetGateways []GatewayNode     `json:"igw"`
	NatGateways      []GatewayNode     `json:"nat"`
	ServiceGateways  []GatewayNode     `json:"sgw"`
	DrgAttachments   []GatewayNode     `json:"drg_attached"`
	LocalPeerings    []GatewayNode     `json:"lpg"`
	Subnets          []SubnetNode      `json:"subnets"`
	SecurityLists    []SecurityNode    `json:"security_lists"`
	SecurityGroups   []SecurityNode    `json:"security_groups"`
	RouteTables      []RouteTableNode  `json:"route_tables"`
	DhcpOptions      []DhcpOptionsNode `json:"dhcp_options"`
}

// GatewayNode is any object attached to a VCN: gateways, DRG attachments, peerings
type GatewayNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
}

type SubnetNode struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CidrBlock     string `json:"cidr_block"`
	Availability  string `json:"availability_domain"`
	Access        string `json:"public_private"`
	DNS           string `json:"dns"`
	RouteTable    Ref    `json:"route_table"`
	SecurityLists []Ref  `json:"security_lists"`
	DhcpOptions   Ref    `json:"dhcp_options"`
}

type SecurityNode struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
}

type RouteTableNode struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Rules []RouteRuleNode `json:"route_rules"`
}

type RouteRuleNode struct {
	Destination string `json:"destination"`
	Target      string `json:"network_entity"`
	Description string `json:"description,omitempty"`
}

type DhcpOptionsNode struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type DrgNode struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Vcns            []string `json:"vcns"`
	IPSec           []string `json:"ipsec"`
	VirtualCircuits []string `json:"virtual_circuits"`
}

type CpeNode struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
}

type IPSecNode struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Drg          Ref      `json:"drg"`
	Cpe          Ref      `json:"cpe"`
	StaticRoutes []string `json:"static_routes"`
}

type VirtualCircuitNode struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Drg            Ref    `json:"drg"`
	BandwidthShape string `json:"bandwidth_shape"`
	ProviderState  string `json:"provider_state"`
}

// Compute report nodes

type ComputeReport struct {
	Instances    []InstanceNode `json:"instances,omitempty"`
	BlockVolumes []VolumeNode   `json:"block_volumes_not_attached,omitempty"`
	BootVolumes  []VolumeNode   `json:"boot_volumes_not_attached,omitempty"`
}

type InstanceNode struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Shape              string       `json:"shape"`
	Ocpus              float32      `json:"ocpus"`
	MemoryInGBs        float32      `json:"memory_gb"`
	AvailabilityDomain string       `json:"availability_domain"`
	FaultDomain        string       `json:"fault_domain"`
	LifecycleState     string       `json:"lifecycle_state"`
	TimeCreated        string       `json:"time_created"`
	Vnics              []VnicNode   `json:"vnic"`
	BootVolume         *VolumeNode  `json:"boot_volume,omitempty"`
	BlockVolumes       []VolumeNode `json:"block_volume"`
}

type VnicNode struct {
	Name      string   `json:"name"`
	PrivateIP string   `json:"private_ip"`
	PublicIP  string   `json:"public_ip"`
	Subnet    string   `json:"subnet"`
	Nsgs      []string `json:"nsg_names"`
	IsPrimary bool     `json:"is_primary"`
}

type VolumeNode struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SizeInGBs int64  `json:"size_gb"`
	VpusPerGB int64  `json:"vpus_per_gb"`
	Details   string `json:"details,omitempty"`
}

// Database report nodes

type DatabaseReport struct {
	DbSystems  []DbSystemNode   `json:"db_system,omitempty"`
	Autonomous []AutonomousNode `json:"autonomous,omitempty"`
}

type DbSystemNode struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Shape     string       `json:"shape"`
	Edition   string       `json:"database_edition"`
	Version   string       `json:"version"`
	Subnet    string       `json:"subnet"`
	ScanIPs   []string     `json:"scan_ips"`
	VipIPs    []string     `json:"vip_ips"`
	Nodes     []DbNodeNode `json:"db_nodes"`
	Homes     []DbHomeNode `json:"db_homes"`
	NodeCount int          `json:"node_count"`
}

type DbNodeNode struct {
	Name        string `json:"name"`
	PrivateIP   string `json:"private_ip"`
	FaultDomain string `json:"fault_domain"`
	State       string `json:"lifecycle_state"`
}

type DbHomeNode struct {
	Name      string         `json:"name"`
	Version   string         `json:"db_version"`
	Databases []DatabaseNode `json:"databases"`
}

type DatabaseNode struct {
	Name       string `json:"name"`
	UniqueName string `json:"db_unique_name"`
	PdbName    string `json:"pdb_name,omitempty"`
	Workload   string `json:"db_workload"`
	State      string `json:"lifecycle_state"`
}

type AutonomousNode struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DbName          string `json:"db_name"`
	Workload        string `json:"db_workload"`
	Version         string `json:"db_version"`
	CPUCoreCount    int    `json:"cpu_core_count"`
	DataStorageTB   int    `json:"data_storage_size_in_tbs"`
	FreeTier        bool   `json:"is_free_tier"`
	Subnet          string `json:"subnet,omitempty"`
	PrivateEndpoint string `json:"private_endpoint,omitempty"`
	State           string `json:"lifecycle_state"`
}

// Identity report nodes

type IdentityReport struct {
	Tenancy       Tenancy               `json:"tenancy"`
	Users         []UserNode            `json:"users"`
	Groups        []GroupNode           `json:"groups"`
	DynamicGroups []DynamicGroupNode    `json:"dynamic_groups"`
	Policies      []PolicyCompartment   `json:"policies"`
	Compartments  []CompartmentTreeNode `json:"compartments"`
}

type UserNode struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Mfa    bool     `json:"is_mfa_activated"`
	State  string   `json:"lifecycle_state"`
	Groups []string `json:"groups"`
}

type GroupNode struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
}

type DynamicGroupNode struct {
	Name         string `json:"name"`
	MatchingRule string `json:"matching_rule"`
}

type PolicyCompartment struct {
	Path     string       `json:"compartment_path"`
	Policies []PolicyNode `json:"policies"`
}

type PolicyNode struct {
	Name       string   `json:"name"`
	Statements []string `json:"statements"`
}

type CompartmentTreeNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}
