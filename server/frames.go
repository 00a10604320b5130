package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"net/http"
	"strconv"
)

const frameQuality = 80

// SetImage keeps img as the latest live frame and pushes it to websocket clients
func (s *Server) SetImage(img image.Image) error {
	if img == nil {
		return errors.New("nil image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: frameQuality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	frame := buf.Bytes()
	s.frameLock.Lock()
	s.frame = frame
	s.frameLock.Unlock()
	s.notifier.SendBytes(frame)
	return nil
}

// liveFrameHandler returns the latest live frame as jpeg
func (s *Server) liveFrameHandler(w http.ResponseWriter, r *http.Request) {
	s.frameLock.RLock()
	frame := s.frame
	s.frameLock.RUnlock()

	if frame == nil {
		renderError(w, r, errors.New("no frame available"), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "max-age=5")
	w.Header().Set("Content-Length", strconv.Itoa(len(frame)))
	if _, err := w.Write(frame); err != nil {
		log.Printf("[WARN] failed to write frame: %v", err)
	}
}

func (s *Server) hasFrame() bool {
	s.frameLock.RLock()
	defer s.frameLock.RUnlock()
	return s.frame != nil
}
