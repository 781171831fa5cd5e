// Command zkdump sniffs ZooKeeper traffic on a network interface and
// decodes it with the response codec, printing every operation and
// exporting per-operation metrics.
//
// Use tcpdump to sanity-check the capture filter:
// tcpdump "tcp and port 2181"
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nickelc/zookeeper/proto"
	"github.com/nickelc/zookeeper/zkerrors"
)

const zkDefaultPort = 2181

var (
	device = flag.String("interface", "eth0", "interface to listen on")

	// metrics
	addr = flag.String("listen-address", ":8085", "The address to listen on for HTTP requests.")

	// output is how we communicate with the user the main content
	output io.Writer = os.Stdout
	// logger to show any messages to the user
	logger *zap.Logger

	snapshotLen int32 = 1024
	timeout           = -1 * time.Second
)

type client struct {
	host net.IP
	port layers.TCPPort
	xid  int32
}

func (c *client) String() string {
	return fmt.Sprintf("%v:%v:%v", c.host, c.port, c.xid)
}

type opTime struct {
	time   time.Time
	opCode proto.OpType
	watch  bool
}

// label is the metrics label for the operation; watched reads are tracked
// separately from plain ones.
func (o *opTime) label() string {
	if o.watch {
		return o.opCode.String() + "W"
	}
	return o.opCode.String()
}

func (o *opTime) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddString("opName", o.label())
	kv.AddBool("watch", o.watch)
	return nil
}

type clientRequestMap map[string]*opTime

func main() {
	flag.Parse()
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.EncoderConfig = zapcore.EncoderConfig{
		LevelKey:      "L",
		TimeKey:       "",
		MessageKey:    "M",
		NameKey:       "N",
		CallerKey:     "",
		StacktraceKey: "S",
		EncodeLevel:   zapcore.CapitalColorLevelEncoder,
	}
	logger, _ = loggerConfig.Build()
	loggerConfig.Level.SetLevel(zap.DebugLevel)

	_, _, closer := RootScope()
	defer closer.Close()

	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(*addr, nil)

	handle, err := pcap.OpenLive(*device, snapshotLen, false /* promiscuous */, timeout)
	if err != nil {
		log.Fatal(err)
	}
	defer handle.Close()

	// Set filter for capture
	var filter = fmt.Sprintf("tcp and port %v", zkDefaultPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		log.Fatal(err)
	}

	fmt.Fprintf(output, "Filter: %v\n", filter)
	rMap := clientRequestMap{}

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	for packet := range packetSource.Packets() {
		processZookeeperPackets(packet, rMap)
	}
}

func castLayers(packet gopacket.Packet) (*layers.TCP, *layers.IPv4, error) {
	// Need TCP to use the source and destination ports to see the direction of the packets
	tcpLayer := packet.Layer(layers.LayerTypeTCP)
	// Need Network info to track and inspect the IP info of the client and servers.
	ipLayer := packet.LayerClass(layers.LayerClassIPNetwork)

	if tcpLayer == nil || ipLayer == nil {
		return nil, nil, errors.New("required layers not found")
	}
	tcp, _ := tcpLayer.(*layers.TCP)
	ip, _ := ipLayer.(*layers.IPv4)

	if tcp == nil || ip == nil {
		return nil, nil, errors.New("failed to cast required layers TCP or IP")
	}

	return tcp, ip, nil
}

func processZookeeperPackets(packet gopacket.Packet, rMap clientRequestMap) {
	// In this hot path we want to return as soon as we know anything is not going through
	if err := packet.ErrorLayer(); err != nil {
		logger.Error("error layer found in packet", zap.Error(err.Error()))
		return
	}

	tcp, ip, err := castLayers(packet)
	if err != nil {
		return
	}

	applicationLayer := packet.ApplicationLayer()
	if applicationLayer == nil {
		return
	}
	appPayload := applicationLayer.Payload()
	if len(appPayload) < 4 {
		return
	}

	// The first 4 bytes are the frame length. The transport framing already
	// delimited the packet for us, so we skip it.
	if tcp.SrcPort == zkDefaultPort {
		if err := handleResponse(ip, tcp, appPayload[4:], rMap, packet.Metadata()); err != nil {
			decodeFailures.Inc(1)
			logger.Error("error processing packet", zap.Error(err))
			return
		}
	}
	if tcp.DstPort == zkDefaultPort {
		if err := handleRequest(ip, tcp, appPayload[4:], rMap, packet.Metadata()); err != nil {
			decodeFailures.Inc(1)
			logger.Error("error processing packet", zap.Error(err))
			return
		}
	}
}

func handleRequest(ip *layers.IPv4, tcp *layers.TCP, buf []byte, rMap clientRequestMap, metaData *gopacket.PacketMetadata) error {
	if len(buf) < 8 {
		return errors.New("request buffer too short for header")
	}
	header, err := proto.ParseRequestHeader(buf[:8])
	if err != nil {
		logger.Error("--> failed to decode header", zap.Error(err), zap.Binary("first-eight-bytes", buf[:8]))
		return err
	}
	// This is the pingRequest. lets ignore for now
	if header.Opcode == proto.OpPing {
		return nil
	}

	client := &client{host: ip.SrcIP, port: tcp.SrcPort, xid: header.Xid}
	trackingOperation := &opTime{opCode: header.Opcode, time: metaData.Timestamp}

	switch header.Opcode {
	case proto.OpNotify:
		if header.Xid == 0 {
			req, err := proto.ParseConnectRequest(buf)
			if err != nil {
				return err
			}
			logger.Info("---> client connect", zap.Any("req", req), zap.Object("header", header))
			return nil
		}
		logger.Debug("--> client notify", zap.Object("header", header))
	case proto.OpGetData, proto.OpExists, proto.OpGetChildren2:
		// reads that can register a watch on the path
		req, err := proto.ParsePathWatchRequest(buf[8:])
		if err != nil {
			return err
		}
		trackingOperation.watch = req.Watch
		logger.Debug("--> client watchable request", zap.Object("header", header), zap.Any("req", req), zap.Object("trackingOp", trackingOperation))
	default:
		logger.Debug("--> client request", zap.Object("header", header))
	}
	rMap[client.String()] = trackingOperation
	operationCounter.With(prometheus.Labels{"operation": trackingOperation.label()}).Inc()

	return nil
}

func handleResponse(ip *layers.IPv4, tcp *layers.TCP, buf []byte, rMap clientRequestMap, packetTime *gopacket.PacketMetadata) error {
	if len(buf) < 16 {
		return errors.New("response buffer too short for header")
	}
	header, err := proto.ParseResponseHeader(buf[:16])
	if err != nil {
		return err
	}
	if header.Err < 0 {
		// the rest of the packet holds no payload worth decoding
		logger.Warn("<-- response error", zap.Object("header", header))
		return nil
	}

	// Dont track the ping responses
	if header.Xid == -2 {
		return nil
	}
	switch header.Xid {
	case 0:
		res, err := proto.Parse(proto.OpCreateSession, buf)
		if err != nil {
			return err
		}
		logger.Debug("<-- connect", zap.Stringer("src", ip.SrcIP), zap.Any("response", res))
		return nil
	case -1:
		// Watch event
		ev, err := proto.ParseWatcherEvent(buf[16:])
		if err != nil {
			return err
		}
		logger.Info("<-- watcher event notification", zap.Object("event", ev))
		return nil
	}

	client := &client{host: ip.DstIP, port: tcp.DstPort, xid: header.Xid}
	// see if we have a client request for this server reply
	operation, found := rMap[client.String()]
	if !found {
		return nil
	}
	opSeconds := packetTime.Timestamp.Sub(operation.time).Seconds()
	operationHistogram.With(
		prometheus.Labels{"operation": operation.label()},
	).Observe(opSeconds)

	switch operation.opCode {
	case proto.OpMulti:
		res, err := proto.Parse(proto.OpMulti, buf[16:])
		if err != nil {
			return err
		}
		multi := res.(proto.MultiResponse)
		logger.Debug("<-- multi response", zap.Object("header", header), zap.Int("entries", len(multi.Results)))
		for i, entry := range multi.Results {
			logger.Debug("<-- multi entry",
				zap.Int("pos", i),
				zap.Object("header", entry.Header),
				zap.String("errorMsg", zkerrors.Message(entry.Header.Err)),
				zap.Any("response", entry.Response),
			)
		}
	default:
		res, err := proto.Parse(operation.opCode, buf[16:])
		if err != nil {
			return err
		}
		logger.Debug("<-- server response", zap.Object("header", header), zap.Any("struct", res))
	}
	delete(rMap, client.String())
	return nil
}
