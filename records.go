package main

// Module groups related sections of the resource store
type Module string

const (
	ModuleIdentity Module = "identity"
	ModuleNetwork  Module = "network"
	ModuleCompute  Module = "compute"
	ModuleDatabase Module = "database"
)

// Base carries the fields shared by every listable resource record
type Base struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CompartmentID   string `json:"compartment_id"`
	CompartmentName string `json:"compartment_name"`
	RegionName      string `json:"region_name"`
	LifecycleState  string `json:"lifecycle_state"`
	TimeCreated     string `json:"time_created,omitempty"`
}

// Tenancy is the root of the compartment hierarchy
type Tenancy struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	HomeRegionKey string `json:"home_region_key"`
}

// Region is a subscribed region of the tenancy
type Region struct {
	Name         string `json:"name"`
	Key          string `json:"key"`
	IsHomeRegion bool   `json:"is_home_region"`
	Status       string `json:"status"`
}

// Compartment is a node of the tenancy compartment tree.
// Path is the materialized ancestry from the tenancy root.
type Compartment struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Path           string `json:"path"`
	ParentID       string `json:"compartment_id"`
	IsAccessible   bool   `json:"is_accessible"`
	LifecycleState string `json:"lifecycle_state"`
	Depth          int    `json:"depth"`
	IsRoot         bool   `json:"is_root"`
}

// Identity records

type AvailabilityDomain struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CompartmentID string `json:"compartment_id"`
	RegionName    string `json:"region_name"`
}

type User struct {
	Base
	Description    string `json:"description"`
	Email          string `json:"email"`
	IsMfaActivated bool   `json:"is_mfa_activated"`
}

type Group struct {
	Base
	Description string `json:"description"`
}

type GroupMembership struct {
	ID            string `json:"id"`
	CompartmentID string `json:"compartment_id"`
	UserID        string `json:"user_id"`
	GroupID       string `json:"group_id"`
}

type DynamicGroup struct {
	Base
	Description  string `json:"description"`
	MatchingRule string `json:"matching_rule"`
}

type Policy struct {
	Base
	Description string   `json:"description"`
	Statements  []string `json:"statements"`
}

// Network records

type Vcn struct {
	Base
	CidrBlocks            []string `json:"cidr_blocks"`
	DNSLabel              string   `json:"dns_label"`
	DomainName            string   `json:"domain_name"`
	DefaultRouteTableID   string   `json:"default_route_table_id"`
	DefaultSecurityListID string   `json:"default_security_list_id"`
	DefaultDhcpOptionsID  string   `json:"default_dhcp_options_id"`
}

type Subnet struct {
	Base
	VcnID              string   `json:"vcn_id"`
	CidrBlock          string   `json:"cidr_block"`
	AvailabilityDomain string   `json:"availability_domain"`
	DNSLabel           string   `json:"dns_label"`
	DomainName         string   `json:"domain_name"`
	RouteTableID       string   `json:"route_table_id"`
	DhcpOptionsID      string   `json:"dhcp_options_id"`
	SecurityListIDs    []string `json:"security_list_ids"`
	ProhibitPublicIP   bool     `json:"prohibit_public_ip"`
}

// SecurityRule is one ingress or egress rule of a security list or NSG
type SecurityRule struct {
	Direction   string `json:"direction"`
	Protocol    string `json:"protocol"`
	Peer        string `json:"peer"`
	PortRange   string `json:"port_range"`
	Stateless   bool   `json:"stateless"`
	Description string `json:"description"`
}

type SecurityList struct {
	Base
	VcnID string         `json:"vcn_id"`
	Rules []SecurityRule `json:"rules"`
}

type NetworkSecurityGroup struct {
	Base
	VcnID string         `json:"vcn_id"`
	Rules []SecurityRule `json:"rules"`
}

// TargetKind identifies the resource type a route rule points at.
// It is derived once, when the route table is collected.
type TargetKind string

const (
	TargetUnknown   TargetKind = ""
	TargetPrivateIP TargetKind = "PrivateIP"
	TargetDRG       TargetKind = "DRG"
	TargetIGW       TargetKind = "IGW"
	TargetNAT       TargetKind = "NAT"
	TargetSGW       TargetKind = "SGW"
	TargetLPG       TargetKind = "LPG"
)

// RouteTarget is the tagged network entity a route rule forwards to
type RouteTarget struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

type RouteRule struct {
	Destination     string      `json:"destination"`
	DestinationType string      `json:"destination_type"`
	Target          RouteTarget `json:"target"`
	Description     string      `json:"description"`
}

type RouteTable struct {
	Base
	VcnID string      `json:"vcn_id"`
	Rules []RouteRule `json:"rules"`
}

type DhcpOptions struct {
	Base
	VcnID            string   `json:"vcn_id"`
	DNSType          string   `json:"dns_type"`
	CustomDNSServers []string `json:"custom_dns_servers"`
	SearchDomains    []string `json:"search_domains"`
}

type InternetGateway struct {
	Base
	VcnID   string `json:"vcn_id"`
	Enabled bool   `json:"enabled"`
}

type NatGateway struct {
	Base
	VcnID        string `json:"vcn_id"`
	NatIP        string `json:"nat_ip"`
	BlockTraffic bool   `json:"block_traffic"`
}

type ServiceGateway struct {
	Base
	VcnID        string   `json:"vcn_id"`
	Services     []string `json:"services"`
	BlockTraffic bool     `json:"block_traffic"`
	RouteTableID string   `json:"route_table_id"`
}

type LocalPeeringGateway struct {
	Base
	VcnID              string `json:"vcn_id"`
	PeerID             string `json:"peer_id"`
	PeeringStatus      string `json:"peering_status"`
	PeerAdvertisedCidr string `json:"peer_advertised_cidr"`
	CrossTenancy       bool   `json:"cross_tenancy"`
	RouteTableID       string `json:"route_table_id"`
}

type Drg struct {
	Base
}

type DrgAttachment struct {
	Base
	DrgID        string `json:"drg_id"`
	VcnID        string `json:"vcn_id"`
	RouteTableID string `json:"route_table_id"`
}

type Cpe struct {
	Base
	IPAddress string `json:"ip_address"`
}

type IPSecConnection struct {
	Base
	DrgID        string   `json:"drg_id"`
	CpeID        string   `json:"cpe_id"`
	StaticRoutes []string `json:"static_routes"`
}

type VirtualCircuit struct {
	Base
	DrgID          string `json:"drg_id"`
	BandwidthShape string `json:"bandwidth_shape"`
	ProviderState  string `json:"provider_state"`
	Type           string `json:"type"`
}

type PrivateIP struct {
	Base
	IPAddress     string `json:"ip_address"`
	SubnetID      string `json:"subnet_id"`
	VnicID        string `json:"vnic_id"`
	HostnameLabel string `json:"hostname_label"`
	IsPrimary     bool   `json:"is_primary"`
}

// Compute and block storage records

type Instance struct {
	Base
	AvailabilityDomain string  `json:"availability_domain"`
	FaultDomain        string  `json:"fault_domain"`
	Shape              string  `json:"shape"`
	Ocpus              float32 `json:"ocpus"`
	MemoryInGBs        float32 `json:"memory_in_gbs"`
	ImageID            string  `json:"image_id"`
}

// Vnic merges a VNIC attachment with its VNIC detail. SubnetName and
// NsgNames are resolved from the network sections at collection time.
type Vnic struct {
	Base
	InstanceID          string   `json:"instance_id"`
	AttachmentID        string   `json:"attachment_id"`
	NicIndex            int      `json:"nic_index"`
	SubnetID            string   `json:"subnet_id"`
	SubnetName          string   `json:"subnet_name"`
	NsgIDs              []string `json:"nsg_ids"`
	NsgNames            []string `json:"nsg_names"`
	PrivateIP           string   `json:"private_ip"`
	PublicIP            string   `json:"public_ip"`
	HostnameLabel       string   `json:"hostname_label"`
	IsPrimary           bool     `json:"is_primary"`
	SkipSourceDestCheck bool     `json:"skip_source_dest_check"`
}

type BootVolumeAttachment struct {
	Base
	InstanceID         string `json:"instance_id"`
	BootVolumeID       string `json:"boot_volume_id"`
	AvailabilityDomain string `json:"availability_domain"`
}

type VolumeAttachment struct {
	Base
	InstanceID     string `json:"instance_id"`
	VolumeID       string `json:"volume_id"`
	AttachmentType string `json:"attachment_type"`
	Device         string `json:"device"`
	ReadOnly       bool   `json:"read_only"`
}

type BlockVolume struct {
	Base
	AvailabilityDomain string `json:"availability_domain"`
	SizeInGBs          int64  `json:"size_in_gbs"`
	VpusPerGB          int64  `json:"vpus_per_gb"`
}

type BootVolume struct {
	Base
	AvailabilityDomain string `json:"availability_domain"`
	SizeInGBs          int64  `json:"size_in_gbs"`
	VpusPerGB          int64  `json:"vpus_per_gb"`
	ImageID            string `json:"image_id"`
}

// Database records

type DbSystem struct {
	Base
	AvailabilityDomain string   `json:"availability_domain"`
	Shape              string   `json:"shape"`
	SubnetID           string   `json:"subnet_id"`
	SubnetName         string   `json:"subnet_name"`
	BackupSubnetID     string   `json:"backup_subnet_id"`
	NsgIDs             []string `json:"nsg_ids"`
	CPUCoreCount       int      `json:"cpu_core_count"`
	DataStorageGB      int      `json:"data_storage_size_in_gbs"`
	DatabaseEdition    string   `json:"database_edition"`
	Version            string   `json:"version"`
	Hostname           string   `json:"hostname"`
	Domain             string   `json:"domain"`
	NodeCount          int      `json:"node_count"`
	LicenseModel       string   `json:"license_model"`
	ScanIPIDs          []string `json:"scan_ip_ids"`
	VipIDs             []string `json:"vip_ids"`
}

type DbNode struct {
	Base
	DbSystemID  string `json:"db_system_id"`
	VnicID      string `json:"vnic_id"`
	PrivateIP   string `json:"private_ip"`
	FaultDomain string `json:"fault_domain"`
}

type DbHome struct {
	Base
	DbSystemID string `json:"db_system_id"`
	DbVersion  string `json:"db_version"`
}

type Database struct {
	Base
	DbHomeID     string `json:"db_home_id"`
	UniqueName   string `json:"db_unique_name"`
	PdbName      string `json:"pdb_name"`
	CharacterSet string `json:"character_set"`
	Workload     string `json:"db_workload"`
}

type AutonomousDatabase struct {
	Base
	DbName            string   `json:"db_name"`
	CPUCoreCount      int      `json:"cpu_core_count"`
	DataStorageTB     int      `json:"data_storage_size_in_tbs"`
	Workload          string   `json:"db_workload"`
	Version           string   `json:"db_version"`
	IsFreeTier        bool     `json:"is_free_tier"`
	LicenseModel      string   `json:"license_model"`
	SubnetID          string   `json:"subnet_id"`
	SubnetName        string   `json:"subnet_name"`
	NsgIDs            []string `json:"nsg_ids"`
	PrivateEndpoint   string   `json:"private_endpoint"`
	PrivateEndpointIP string   `json:"private_endpoint_ip"`
}

// Section keys. Each binds a (module, section) pair to its record type.
var (
	SecCompartment        = newSectionKey[Compartment](ModuleIdentity, "compartment")
	SecAvailabilityDomain = newSectionKey[AvailabilityDomain](ModuleIdentity, "availability_domain")
	SecUser               = newSectionKey[User](ModuleIdentity, "user")
	SecGroup              = newSectionKey[Group](ModuleIdentity, "group")
	SecGroupMembership    = newSectionKey[GroupMembership](ModuleIdentity, "group_membership")
	SecDynamicGroup       = newSectionKey[DynamicGroup](ModuleIdentity, "dynamic_group")
	SecPolicy             = newSectionKey[Policy](ModuleIdentity, "policy")

	SecVcn            = newSectionKey[Vcn](ModuleNetwork, "vcn")
	SecSubnet         = newSectionKey[Subnet](ModuleNetwork, "subnet")
	SecSecurityList   = newSectionKey[SecurityList](ModuleNetwork, "security_list")
	SecNsg            = newSectionKey[NetworkSecurityGroup](ModuleNetwork, "security_group")
	SecRouteTable     = newSectionKey[RouteTable](ModuleNetwork, "route")
	SecDhcpOptions    = newSectionKey[DhcpOptions](ModuleNetwork, "dhcp")
	SecIGW            = newSectionKey[InternetGateway](ModuleNetwork, "igw")
	SecNAT            = newSectionKey[NatGateway](ModuleNetwork, "nat")
	SecSGW            = newSectionKey[ServiceGateway](ModuleNetwork, "sgw")
	SecLPG            = newSectionKey[LocalPeeringGateway](ModuleNetwork, "lpg")
	SecDrg            = newSectionKey[Drg](ModuleNetwork, "drg")
	SecDrgAttachment  = newSectionKey[DrgAttachment](ModuleNetwork, "drg_attached")
	SecCpe            = newSectionKey[Cpe](ModuleNetwork, "cpe")
	SecIPSec          = newSectionKey[IPSecConnection](ModuleNetwork, "ipsec")
	SecVirtualCircuit = newSectionKey[VirtualCircuit](ModuleNetwork, "virtual_circuit")
	SecPrivateIP      = newSectionKey[PrivateIP](ModuleNetwork, "private_ip")

	SecInstance             = newSectionKey[Instance](ModuleCompute, "instance")
	SecVnic                 = newSectionKey[Vnic](ModuleCompute, "vnic")
	SecBootVolumeAttachment = newSectionKey[BootVolumeAttachment](ModuleCompute, "boot_volume_attach")
	SecVolumeAttachment     = newSectionKey[VolumeAttachment](ModuleCompute, "volume_attach")
	SecBlockVolume          = newSectionKey[BlockVolume](ModuleCompute, "block_volume")
	SecBootVolume           = newSectionKey[BootVolume](ModuleCompute, "boot_volume")

	SecDbSystem           = newSectionKey[DbSystem](ModuleDatabase, "db_system")
	SecDbNode             = newSectionKey[DbNode](ModuleDatabase, "db_node")
	SecDbHome             = newSectionKey[DbHome](ModuleDatabase, "db_home")
	SecDatabase           = newSectionKey[Database](ModuleDatabase, "database")
	SecAutonomousDatabase = newSectionKey[AutonomousDatabase](ModuleDatabase, "autonomous")
)
